package harness

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/bdatconv/pkg/bdat"
	"github.com/715d/bdatconv/pkg/bdaterr"
	"github.com/715d/bdatconv/pkg/deser"
	"github.com/715d/bdatconv/pkg/schema"
)

// TestHarness runs cases found under a testdata root.
type TestHarness struct {
	// root is the root directory for test data
	root string
}

// NewHarness creates a new test harness.
func NewHarness(root string) *TestHarness {
	return &TestHarness{root: root}
}

// ConfigurationResult is the outcome of one run configuration.
type ConfigurationResult struct {
	Configuration RunConfiguration
	Results       []deser.Result
	Success       bool
	Message       string
	Details       []string
}

// TestResult is the outcome of a whole case.
type TestResult struct {
	TestCase             *TestCase
	ConfigurationResults []ConfigurationResult
	Success              bool
	Message              string
}

// Run executes a test case under each of its run configurations.
func (h *TestHarness) Run(t *testing.T, tc *TestCase) *TestResult {
	t.Helper()
	require.NotEmpty(t, tc.Runs, "test case has no runs")

	var results []ConfigurationResult
	allSuccess := true
	for _, cfg := range tc.Runs {
		cfgResult := h.runConfiguration(t, tc, cfg)
		results = append(results, *cfgResult)
		if !cfgResult.Success {
			allSuccess = false
		}
	}

	var resultMsg string
	if allSuccess {
		resultMsg = fmt.Sprintf("All %d configurations passed", len(tc.Runs))
	} else {
		failedCount := 0
		var msgs []string
		for _, cr := range results {
			if !cr.Success {
				failedCount++
				msgs = append(msgs, fmt.Sprintf("[%s] %s:\n  %s",
					cr.Configuration.Name, cr.Message, strings.Join(cr.Details, "\n  ")))
			}
		}
		resultMsg = fmt.Sprintf("%d/%d configurations failed:\n%s",
			failedCount, len(tc.Runs), strings.Join(msgs, "\n"))
	}

	return &TestResult{
		TestCase:             tc,
		ConfigurationResults: results,
		Success:              allSuccess,
		Message:              resultMsg,
	}
}

// runConfiguration deserializes the case's tables under one configuration.
func (h *TestHarness) runConfiguration(t *testing.T, tc *TestCase, cfg RunConfiguration) *ConfigurationResult {
	t.Helper()
	caseDir := filepath.Join(h.root, tc.Dir)

	policy, err := deser.ParseExtraFieldPolicy(cfg.ExtraFields)
	require.NoError(t, err)

	var opts []schema.Option
	if cfg.ExpectedVersion != 0 {
		opts = append(opts, schema.WithExpectedVersion(cfg.ExpectedVersion))
	}
	store := schema.NewStore(filepath.Join(caseDir, "schemas"), opts...)

	d := deser.New(store, deser.Options{
		WithoutSchema: cfg.UnsafeWithoutSchema,
		ExtraFields:   policy,
	})
	// Per-table failures are checked against the expectations, not here.
	results, _ := d.DeserializeAll(t.Context(), LoadTables(t, caseDir))

	cfgResult := &ConfigurationResult{Configuration: cfg, Results: results}
	validateResults(cfgResult, cfg.ExpectedTables, results)
	return cfgResult
}

func validateResults(cfgResult *ConfigurationResult, expected []ExpectedTable, actual []deser.Result) {
	byName := make(map[string]deser.Result, len(actual))
	for _, r := range actual {
		byName[r.Doc.Label().String()] = r
	}

	var details []string
	seen := make(map[string]bool, len(expected))
	for _, exp := range expected {
		seen[exp.Table] = true
		r, ok := byName[exp.Table]
		if !ok {
			details = append(details, fmt.Sprintf("%s: table not found", exp.Table))
			continue
		}
		details = append(details, compareTable(exp, r)...)
	}

	var unexpected []string
	for name := range byName {
		if !seen[name] {
			unexpected = append(unexpected, name)
		}
	}
	slices.Sort(unexpected)
	for _, name := range unexpected {
		details = append(details, fmt.Sprintf("%s: no expectation for table", name))
	}

	cfgResult.Success = len(details) == 0
	cfgResult.Details = details
	if cfgResult.Success {
		cfgResult.Message = fmt.Sprintf("All %d tables matched", len(expected))
	} else {
		cfgResult.Message = fmt.Sprintf("%d mismatches", len(details))
	}
}

func compareTable(exp ExpectedTable, r deser.Result) []string {
	var details []string
	if kind := string(bdaterr.KindOf(r.Err)); kind != exp.ErrorKind {
		details = append(details, fmt.Sprintf("%s: error kind %q, expected %q (error: %v)", exp.Table, kind, exp.ErrorKind, r.Err))
	}
	if exp.Error != "" && (r.Err == nil || !strings.Contains(r.Err.Error(), exp.Error)) {
		details = append(details, fmt.Sprintf("%s: error %v does not contain %q", exp.Table, r.Err, exp.Error))
	}
	if r.Table == nil {
		return details
	}

	if exp.Columns != nil {
		if got := columnStrings(r.Table); !slices.Equal(got, exp.Columns) {
			details = append(details, fmt.Sprintf("%s: columns %v, expected %v", exp.Table, got, exp.Columns))
		}
	}
	if exp.Rows != nil {
		got := rowStrings(r.Table)
		if !slices.EqualFunc(got, exp.Rows, slices.Equal[[]string]) {
			details = append(details, fmt.Sprintf("%s: rows %v, expected %v", exp.Table, got, exp.Rows))
		}
	}
	return details
}

func columnStrings(t *bdat.Table) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = fmt.Sprintf("%s:%s", c.Label, c.Type)
	}
	return out
}

func rowStrings(t *bdat.Table) [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row.Values))
		for j, v := range row.Values {
			cells[j] = v.Text()
		}
		out[i] = cells
	}
	return out
}
