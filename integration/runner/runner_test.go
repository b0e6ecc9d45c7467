package runner

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/pokequest/internal/handlers"
	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := storage.NewMockStorage()
	store.AddSpecies(&battle.Species{
		ID:        "pikachu",
		Name:      "Pikachu",
		Types:     []battle.PokemonType{battle.TypeElectric},
		BaseStats: battle.BaseStats{HP: 35, Attack: 55, Defense: 40, SpecialAttack: 50, SpecialDefense: 50, Speed: 90},
		Moves: []battle.Move{
			{Name: "Thunder Shock", Type: battle.TypeElectric, Category: battle.CategorySpecial, Power: 40, BasePP: 30},
		},
	})
	store.AddSpecies(&battle.Species{
		ID:        "rattata",
		Name:      "Rattata",
		Types:     []battle.PokemonType{battle.TypeNormal},
		BaseStats: battle.BaseStats{HP: 30, Attack: 56, Defense: 35, SpecialAttack: 25, SpecialDefense: 35, Speed: 72},
		Moves: []battle.Move{
			{Name: "Tackle", Type: battle.TypeNormal, Category: battle.CategoryPhysical, Power: 40, BasePP: 35},
		},
	})
	store.AddItem(&battle.InventoryItem{
		ID: "potion", Name: "Potion", CanUseInBattle: true,
		TargetType: battle.ItemTargetSelfTeam,
		Effect:     &battle.ItemEffect{Type: battle.ItemEffectHealHP, Amount: 20},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handlers.NewBattleHandler(logger, store, handlers.BattleOptions{RNGSeed: 3})
	mux := http.NewServeMux()
	mux.Handle("/v1/battles", h)
	mux.Handle("/v1/battles/", h)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func testSuite() TestSuite {
	return TestSuite{
		Name: "flee and heal",
		Battle: handlers.CreateBattleRequest{
			Team:      []handlers.PokemonRequest{{Species: "pikachu", Level: 20}},
			Enemy:     handlers.PokemonRequest{Species: "rattata", Level: 3},
			Inventory: []handlers.InventoryRequest{{ItemID: "potion", Quantity: 2}},
		},
		Steps: []TestStep{
			{Name: "bad move", Action: "7", Expectations: Expectations{Status: intPtr(http.StatusBadRequest), Turn: intPtr(0), ErrorContains: "invalid move"}},
			{Name: "potion at full hp", Action: "/item potion", Expectations: Expectations{Inventory: map[string]int{"potion": 2}, MessagesContain: []string{"already full"}}},
			{Name: "heal too early", Action: HealAction, Expectations: Expectations{Status: intPtr(http.StatusConflict)}},
			{Name: "run", Action: "/run", Expectations: Expectations{Outcome: strPtr("fled"), Turn: intPtr(1), MessagesContain: []string{"Got away safely!"}}},
			{Name: "heal", Action: HealAction, Expectations: Expectations{TeamFullHP: boolPtr(true)}},
			{Name: "reset", Action: ResetBattleAction, Expectations: Expectations{Outcome: strPtr("ongoing"), MessagesContain: []string{"A wild Rattata appeared!"}}},
		},
	}
}

func TestRunSuite(t *testing.T) {
	srv := newTestServer(t)
	r := NewRunner(srv.URL + "/")

	result, err := r.RunSuite(context.Background(), testSuite())
	require.NoError(t, err)
	require.Len(t, result.Results, 6)
	for _, step := range result.Results {
		assert.True(t, step.Success, "step %s: %v", step.StepName, step.Error)
	}
	assert.True(t, result.Results[5].IsReset)
	require.NotNil(t, result.Results[0].State, "a rejected action still reads the battle back")
	assert.Equal(t, "ongoing", result.Outcome())
	assert.Equal(t, 0, result.Turns())
	assert.Equal(t, "fled", string(result.Results[3].State.Outcome))

	// The suite cleans up its last battle.
	resp, err := http.Get(srv.URL + "/v1/battles/" + result.Battle.String())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunSuite_FailedExpectation(t *testing.T) {
	srv := newTestServer(t)

	suite := testSuite()
	suite.Steps = []TestStep{
		{Name: "wrong outcome", Action: "/run", Expectations: Expectations{Outcome: strPtr("won")}},
		{Name: "after", Action: HealAction},
	}

	t.Run("continue", func(t *testing.T) {
		r := NewRunner(srv.URL)
		result, err := r.RunSuite(context.Background(), suite)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected outcome won, got fled")
		assert.Len(t, result.Results, 2)
		assert.True(t, result.Results[1].Success)
	})

	t.Run("exit", func(t *testing.T) {
		r := NewRunner(srv.URL)
		r.ErrorHandlingMode = ErrorHandlingExit
		result, err := r.RunSuite(context.Background(), suite)
		require.Error(t, err)
		assert.Len(t, result.Results, 1)
	})
}

func TestRunSuite_CreateFails(t *testing.T) {
	srv := newTestServer(t)
	r := NewRunner(srv.URL)

	suite := TestSuite{
		Name:   "missing species",
		Battle: handlers.CreateBattleRequest{Team: []handlers.PokemonRequest{{Species: "mew"}}, Enemy: handlers.PokemonRequest{Species: "rattata"}},
	}
	_, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create battle")
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	write("a.json", `{"name":"A","battle":{"enemy":{"species":"rattata"}},"steps":[{"action":"/run"}]}`)
	write("b.json", `{"name":"B","steps":[{"action":"1"},{"action":"2"}]}`)
	write("inner.json", `{"name":"Inner","cases":["b.json"]}`)
	write("all.json", `{"name":"All","cases":["a.json","inner.json"]}`)
	write("broken.json", `{"name":"Broken","cases":["missing.json"]}`)

	jobs, err := LoadTestSuiteWithExpansion(filepath.Join(dir, "a.json"), dir)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "rattata", jobs[0].Suite.Battle.Enemy.Species)

	jobs, err = LoadTestSuiteWithExpansion(filepath.Join(dir, "all.json"), dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "A", jobs[0].Name)
	assert.Equal(t, "B", jobs[1].Name)
	assert.Len(t, jobs[1].Suite.Steps, 2)

	_, err = LoadTestSuiteWithExpansion(filepath.Join(dir, "broken.json"), dir)
	assert.Error(t, err)
}

func TestLoadJobs_SkipsDuplicates(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	write("a.json", `{"name":"A","steps":[{"action":"/run"}]}`)
	write("b.json", `{"name":"B","steps":[{"action":"1"}]}`)
	write("all.json", `{"name":"All","cases":["a.json","b.json"]}`)
	write("broken.json", `{"name":"Broken","cases":["missing.json"]}`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "notes"), 0755))
	write("notes/readme.txt", "not a case")

	files, err := DiscoverCases(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "all.json"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "broken.json"),
	}, files)

	jobs, errs := LoadJobs(files, dir)
	assert.Len(t, errs, 1)
	var names []string
	for _, job := range jobs {
		names = append(names, job.Name)
	}
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestReport(t *testing.T) {
	srv := newTestServer(t)
	r := NewRunner(srv.URL)

	flee := testSuite()
	flee.Name = "flee"
	flee.Steps = flee.Steps[3:4]

	broken := testSuite()
	broken.Name = "broken"
	broken.Steps = []TestStep{
		{Name: "wrong outcome", Action: "/run", Expectations: Expectations{Outcome: strPtr("won")}},
	}

	report := NewReport()
	for run := 1; run <= 2; run++ {
		for _, suite := range []TestSuite{flee, broken} {
			res, _ := r.RunSuite(context.Background(), suite)
			res.Job = TestJob{Name: suite.Name, Suite: suite}
			report.Add(run, res)
		}
	}

	total, passes, failures := report.Totals()
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, passes)
	assert.Equal(t, 2, failures)

	summary := report.Summary()
	assert.Contains(t, summary, "flee: 2/2 passes, outcome fled x2, 1.0 turns avg")
	assert.Contains(t, summary, "broken: 0/2 passes")
	assert.NotContains(t, summary, "FLAKY")

	require.Len(t, report.Failures(), 2)
	f := report.Failures()[1]
	assert.Equal(t, StepFailure{
		Suite: "broken", Step: "wrong outcome", Run: 2, Outcome: "fled", Turn: 1,
		Error: "expectation failed: expected outcome won, got fled",
	}, f)
	assert.Contains(t, report.FailureReport(), "✗ wrong outcome (run 1, turn 1, fled)")
}

func TestReport_SetupFailure(t *testing.T) {
	report := NewReport()
	report.Add(1, TestRunResult{Job: TestJob{Name: "no battle"}, Error: assert.AnError})

	require.Len(t, report.Failures(), 1)
	assert.Equal(t, "setup", report.Failures()[0].Step)
	assert.Contains(t, report.Summary(), "no battle: 0/1 passes, outcome unknown x1, 0.0 turns avg")
}
