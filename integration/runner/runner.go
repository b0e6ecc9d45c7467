package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/internal/handlers"
	"github.com/jwebster45206/pokequest/pkg/state"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running pokequest API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
	CheckLog          bool // Drain the battle log feed after each step
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	created, err := CreateBattle(ctx, r.Client, r.BaseURL, suite.Battle)
	if err != nil {
		result.Error = fmt.Errorf("failed to create battle: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	battleID := created.Battle.ID
	result.Battle = battleID
	result.Final = created.Battle

	// Discard the opening lines so log checks see only the step's turn
	if r.CheckLog {
		if _, err := DrainLog(ctx, r.Client, r.BaseURL, battleID); err != nil {
			r.Logger("    Battle log feed unavailable, skipping log checks: %v", err)
			r.CheckLog = false
		}
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)

		stepCtx, cancel := context.WithTimeout(ctx, r.Timeout)
		stepResult, newID := r.runStep(stepCtx, battleID, step, &suite.Battle)
		cancel()

		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)
		if newID != uuid.Nil {
			battleID = newID
			result.Battle = battleID
		}
		if stepResult.State != nil {
			result.Final = stepResult.State
		}
		result.LogLines += stepResult.LogLines

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	if err := DeleteBattle(ctx, r.Client, r.BaseURL, battleID); err != nil {
		r.Logger("    Warning: failed to delete battle %s: %v", battleID, err)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep executes a single test step and checks expectations.
// A reset step returns the ID of the replacement battle.
func (r *Runner) runStep(ctx context.Context, battleID uuid.UUID, step TestStep, seed *handlers.CreateBattleRequest) (TestResult, uuid.UUID) {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	if step.Action == ResetBattleAction {
		if err := DeleteBattle(ctx, r.Client, r.BaseURL, battleID); err != nil {
			result.Error = fmt.Errorf("failed to delete battle for reset: %w", err)
			result.Duration = time.Since(start)
			return result, uuid.Nil
		}
		created, err := CreateBattle(ctx, r.Client, r.BaseURL, *seed)
		if err != nil {
			result.Error = fmt.Errorf("failed to recreate battle: %w", err)
			result.Duration = time.Since(start)
			return result, uuid.Nil
		}
		if r.CheckLog {
			_, _ = DrainLog(ctx, r.Client, r.BaseURL, created.Battle.ID)
		}
		if err := r.checkExpectations(step.Expectations, http.StatusOK, created.Battle, created.Messages, nil); err != nil {
			result.Error = fmt.Errorf("reset expectation failed: %w", err)
		} else {
			result.Success = true
		}
		result.IsReset = true
		result.Messages = created.Messages
		result.State = created.Battle
		result.Duration = time.Since(start)
		return result, created.Battle.ID
	}

	var (
		resp *handlers.BattleResponse
		err  error
	)
	if step.Action == HealAction {
		resp, err = HealBattle(ctx, r.Client, r.BaseURL, battleID)
	} else {
		resp, err = PostAction(ctx, r.Client, r.BaseURL, battleID, step.Action)
	}

	status := http.StatusOK
	var bs *state.BattleState
	var messages []string
	var errMsg string
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			result.Error = fmt.Errorf("failed to send action: %w", err)
			result.Duration = time.Since(start)
			return result, uuid.Nil
		}
		status = apiErr.Status
		errMsg = apiErr.Message

		// The battle is unchanged after a rejected action; fetch it for state checks
		bs, err = GetBattle(ctx, r.Client, r.BaseURL, battleID)
		if err != nil {
			result.Error = fmt.Errorf("failed to get battle after rejected action: %w", err)
			result.Duration = time.Since(start)
			return result, uuid.Nil
		}
	} else {
		bs = resp.Battle
		messages = resp.Messages
	}
	result.Messages = messages
	result.State = bs

	var logLines []string
	if r.CheckLog && len(step.Expectations.LogContains) > 0 {
		logLines, err = DrainLog(ctx, r.Client, r.BaseURL, battleID)
		if err != nil {
			result.Error = fmt.Errorf("failed to drain battle log: %w", err)
			result.Duration = time.Since(start)
			return result, uuid.Nil
		}
		result.LogLines = len(logLines)
	}

	if err := r.checkExpectations(step.Expectations, status, bs, messages, logLines); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
	} else if errMsg != "" && step.Expectations.ErrorContains != "" &&
		!strings.Contains(strings.ToLower(errMsg), strings.ToLower(step.Expectations.ErrorContains)) {
		result.Error = fmt.Errorf("expected error to contain '%s', got '%s'", step.Expectations.ErrorContains, errMsg)
	} else {
		result.Success = true
	}

	result.Duration = time.Since(start)
	return result, uuid.Nil
}

// checkExpectations validates the step expectations against the battle after the step
func (r *Runner) checkExpectations(exp Expectations, status int, bs *state.BattleState, messages, logLines []string) error {
	wantStatus := http.StatusOK
	if exp.Status != nil {
		wantStatus = *exp.Status
	}
	if status != wantStatus {
		return fmt.Errorf("expected status %d, got %d", wantStatus, status)
	}

	if exp.Outcome != nil && string(bs.Outcome) != *exp.Outcome {
		return fmt.Errorf("expected outcome %s, got %s", *exp.Outcome, bs.Outcome)
	}

	if exp.Turn != nil && bs.Turn != *exp.Turn {
		return fmt.Errorf("expected turn to be %d, got %d", *exp.Turn, bs.Turn)
	}

	if exp.ActiveIndex != nil && bs.ActiveIndex != *exp.ActiveIndex {
		return fmt.Errorf("expected active_index %d, got %d", *exp.ActiveIndex, bs.ActiveIndex)
	}

	if exp.TeamSize != nil && len(bs.Team) != *exp.TeamSize {
		return fmt.Errorf("expected team size %d, got %d", *exp.TeamSize, len(bs.Team))
	}

	if exp.EnemyFainted != nil {
		if bs.Enemy == nil {
			return fmt.Errorf("expected an enemy, got none")
		}
		if bs.Enemy.IsFainted != *exp.EnemyFainted {
			return fmt.Errorf("expected enemy fainted %t, got %t", *exp.EnemyFainted, bs.Enemy.IsFainted)
		}
	}

	if exp.TeamFullHP != nil {
		full := true
		for _, p := range bs.Team {
			if p.CurrentHP != p.MaxHP {
				full = false
				break
			}
		}
		if full != *exp.TeamFullHP {
			return fmt.Errorf("expected team at full HP %t, got %t", *exp.TeamFullHP, full)
		}
	}

	for id, want := range exp.Inventory {
		got := 0
		if i := bs.FindItem(id); i >= 0 {
			got = bs.Inventory[i].Quantity
		}
		if got != want {
			return fmt.Errorf("expected %d of item '%s', got %d", want, id, got)
		}
	}

	joined := strings.ToLower(strings.Join(messages, "\n"))
	for _, expectedText := range exp.MessagesContain {
		if !strings.Contains(joined, strings.ToLower(expectedText)) {
			return fmt.Errorf("expected messages to contain '%s', got %q", expectedText, messages)
		}
	}
	for _, unexpectedText := range exp.MessagesNotContain {
		if strings.Contains(joined, strings.ToLower(unexpectedText)) {
			return fmt.Errorf("expected messages to NOT contain '%s', but they did", unexpectedText)
		}
	}

	if exp.MessagesRegex != "" {
		matched, err := regexp.MatchString(exp.MessagesRegex, strings.Join(messages, "\n"))
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("messages didn't match regex pattern: %s", exp.MessagesRegex)
		}
	}

	if r.CheckLog && len(exp.LogContains) > 0 {
		log := strings.ToLower(strings.Join(logLines, "\n"))
		for _, expectedText := range exp.LogContains {
			if !strings.Contains(log, strings.ToLower(expectedText)) {
				return fmt.Errorf("expected battle log to contain '%s', got %q", expectedText, logLines)
			}
		}
	}

	return nil
}
