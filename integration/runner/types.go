package runner

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/internal/handlers"
	"github.com/jwebster45206/pokequest/pkg/state"
)

// Special action values that trigger non-battle steps
const (
	ResetBattleAction = "RESET_BATTLE"
	HealAction        = "HEAL"
)

// TestSuite is one case file: a battle to create and the steps to play
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name   string                       `json:"name"`
	Battle handlers.CreateBattleRequest `json:"battle,omitempty"` // Used for regular tests
	Steps  []TestStep                   `json:"steps,omitempty"`  // Used for regular tests
	Cases  []string                     `json:"cases,omitempty"`  // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single battle action and its expected outcomes
// Use action: "RESET_BATTLE" to start over from the suite's battle request
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Action       string       `json:"action"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	Status *int `json:"status,omitempty"` // HTTP status, defaults to 200

	// BattleState properties - aligned with pkg/state/battlestate.go
	Outcome      *string        `json:"outcome,omitempty"`
	Turn         *int           `json:"turn,omitempty"`
	ActiveIndex  *int           `json:"active_index,omitempty"`
	TeamSize     *int           `json:"team_size,omitempty"`
	EnemyFainted *bool          `json:"enemy_fainted,omitempty"`
	TeamFullHP   *bool          `json:"team_full_hp,omitempty"`
	Inventory    map[string]int `json:"inventory,omitempty"` // Item ID to quantity, 0 means gone

	// Turn message analysis
	MessagesContain    []string `json:"messages_contain,omitempty"`
	MessagesNotContain []string `json:"messages_not_contain,omitempty"`
	MessagesRegex      string   `json:"messages_regex,omitempty"`
	ErrorContains      string   `json:"error_contains,omitempty"`

	// Lines read back from the battle log feed
	LogContains []string `json:"log_contains,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Messages []string
	IsReset  bool               // True if this was a RESET_BATTLE step (should not count toward pass/fail metrics)
	State    *state.BattleState // Battle after the step, nil if it could not be read
	LogLines int                // Battle log lines drained and checked for this step
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Battle   uuid.UUID          // ID of the most recent battle used for this test
	Final    *state.BattleState // Last battle state seen
	LogLines int                // Battle log lines checked across all steps
}

// Outcome reports how the last battle stood, or "unknown" when no state was read.
func (r TestRunResult) Outcome() string {
	if r.Final == nil {
		return "unknown"
	}
	return string(r.Final.Outcome)
}

// Turns is the turn count of the last battle.
func (r TestRunResult) Turns() int {
	if r.Final == nil {
		return 0
	}
	return r.Final.Turn
}
