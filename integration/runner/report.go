package runner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// DiscoverCases lists the case files under dir, sorted by path.
func DiscoverCases(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// LoadJobs expands every file into its battle suites. A case reached from
// several sequence files runs once.
func LoadJobs(files []string, casesDir string) ([]TestJob, []error) {
	var jobs []TestJob
	var errs []error
	seen := make(map[string]bool)
	for _, file := range files {
		expanded, err := LoadTestSuiteWithExpansion(file, casesDir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, job := range expanded {
			key := filepath.Clean(job.CaseFile)
			if seen[key] {
				continue
			}
			seen[key] = true
			jobs = append(jobs, job)
		}
	}
	return jobs, errs
}

// suiteStats aggregates one suite's runs.
type suiteStats struct {
	passes   int
	failures int
	outcomes map[string]int
	turns    int
	logLines int
}

// StepFailure is one failed step, with where the battle stood afterwards.
type StepFailure struct {
	Suite   string
	Step    string
	Error   string
	Run     int
	Outcome string
	Turn    int
}

// Report collects suite results across runs.
type Report struct {
	order    []string
	stats    map[string]*suiteStats
	failures []StepFailure
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{stats: make(map[string]*suiteStats)}
}

// Add records one suite run.
func (r *Report) Add(run int, res TestRunResult) {
	name := res.Job.Name
	st, ok := r.stats[name]
	if !ok {
		st = &suiteStats{outcomes: make(map[string]int)}
		r.stats[name] = st
		r.order = append(r.order, name)
	}
	if res.Error != nil {
		st.failures++
	} else {
		st.passes++
	}
	st.outcomes[res.Outcome()]++
	st.turns += res.Turns()
	st.logLines += res.LogLines

	for _, step := range res.Results {
		if step.Success || step.Error == nil {
			continue
		}
		f := StepFailure{Suite: name, Step: step.StepName, Error: step.Error.Error(), Run: run, Outcome: "unknown"}
		if step.State != nil {
			f.Outcome = string(step.State.Outcome)
			f.Turn = step.State.Turn
		}
		r.failures = append(r.failures, f)
	}
	if res.Error != nil && len(res.Results) == 0 {
		r.failures = append(r.failures, StepFailure{Suite: name, Step: "setup", Error: res.Error.Error(), Run: run, Outcome: "unknown"})
	}
}

// Totals returns the number of suite runs, passes and failures.
func (r *Report) Totals() (runs, passes, failures int) {
	for _, st := range r.stats {
		passes += st.passes
		failures += st.failures
	}
	return passes + failures, passes, failures
}

// Failures returns the recorded step failures in the order they happened.
func (r *Report) Failures() []StepFailure {
	return r.failures
}

// Summary lists each suite's pass rate, final outcomes, turn average and
// log checks.
func (r *Report) Summary() string {
	total, passes, failures := r.Totals()
	if total == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n=== BATTLE SUITE SUMMARY ===\n")
	fmt.Fprintf(&sb, "Suite runs: %d, passed: %d (%.1f%%), failed: %d\n",
		total, passes, percent(passes, total), failures)

	for _, name := range r.order {
		st := r.stats[name]
		runs := st.passes + st.failures
		fmt.Fprintf(&sb, "  %s: %d/%d passes, outcome %s, %.1f turns avg, %d log lines checked\n",
			name, st.passes, runs, formatOutcomes(st.outcomes), float64(st.turns)/float64(runs), st.logLines)
		if st.passes > 0 && st.failures > 0 {
			sb.WriteString("    ⚠️  FLAKY: passed and failed across runs\n")
		}
		if len(st.outcomes) > 1 {
			sb.WriteString("    ⚠️  battle ended differently across runs\n")
		}
	}
	return sb.String()
}

// FailureReport groups step failures by suite and step.
func (r *Report) FailureReport() string {
	if len(r.failures) == 0 {
		return ""
	}

	bySuite := make(map[string][]StepFailure)
	for _, f := range r.failures {
		bySuite[f.Suite] = append(bySuite[f.Suite], f)
	}
	suites := make([]string, 0, len(bySuite))
	for name := range bySuite {
		suites = append(suites, name)
	}
	sort.Strings(suites)

	var sb strings.Builder
	sb.WriteString("\n=== FAILED STEPS ===\n")
	for _, name := range suites {
		fails := bySuite[name]
		fmt.Fprintf(&sb, "\n%s (%d step failure(s)):\n", name, len(fails))
		slices.SortStableFunc(fails, func(a, b StepFailure) int { return strings.Compare(a.Step, b.Step) })
		for _, f := range fails {
			fmt.Fprintf(&sb, "  ✗ %s (run %d, turn %d, %s)\n      %s\n", f.Step, f.Run, f.Turn, f.Outcome, f.Error)
		}
	}
	return sb.String()
}

func formatOutcomes(outcomes map[string]int) string {
	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s x%d", k, outcomes[k])
	}
	return strings.Join(parts, ", ")
}

func percent(n, total int) float64 {
	return float64(n) / float64(total) * 100
}
