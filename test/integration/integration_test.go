package integration

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/project-viability/internal/config"
	"github.com/iwvelando/project-viability/internal/evaluation"
	"github.com/iwvelando/project-viability/internal/optimizer"
	"github.com/iwvelando/project-viability/pkg/indicators"
	"github.com/iwvelando/project-viability/pkg/output"
	"github.com/iwvelando/project-viability/pkg/sensitivity"
	"go.uber.org/zap"
)

const testProjectPath = "../test_project.yaml"

var fixedTime = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

func loadAndEvaluate(t *testing.T, path string) evaluation.Report {
	t.Helper()

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	report, err := evaluation.GetEvaluationWithOptions(zap.NewNop(), *conf, evaluation.Options{FixedTime: fixedTime})
	if err != nil {
		t.Fatalf("GetEvaluation() error = %v", err)
	}
	return report
}

// TestMainIntegrationBaseline checks the full pipeline against the known
// figures of the sample project.
func TestMainIntegrationBaseline(t *testing.T) {
	report := loadAndEvaluate(t, testProjectPath)

	got := report.Indicators
	if got.NPV != 56.45 {
		t.Errorf("NPV = %v, expected 56.45", got.NPV)
	}
	checks := []struct {
		name     string
		value    *float64
		expected float64
	}{
		{"IRR", got.IRR, 0.3722},
		{"ProfitabilityIndex", got.ProfitabilityIndex, 2.0856},
		{"BenefitCost", got.BenefitCost, 1.3923},
		{"Payback", got.Payback, 2.13},
		{"ROI", got.ROI, 1.3423},
	}
	for _, c := range checks {
		if c.value == nil {
			t.Errorf("%s is undefined, expected %v", c.name, c.expected)
			continue
		}
		if *c.value != c.expected {
			t.Errorf("%s = %v, expected %v", c.name, *c.value, c.expected)
		}
	}
	if got.Decision != indicators.DecisionAccept {
		t.Errorf("Decision = %s, expected ACCEPT", got.Decision)
	}
	if got.NonConventional {
		t.Error("sample project should have conventional flows")
	}

	validateScenarios(t, report)
	validateBreakEven(t, report)
}

func validateScenarios(t *testing.T, report evaluation.Report) {
	t.Helper()

	expected := []struct {
		name string
		npv  float64
	}{
		{sensitivity.ScenarioPessimistic, 51.56},
		{sensitivity.ScenarioBase, 56.45},
		{sensitivity.ScenarioOptimistic, 42.46},
		{"Costs up 50%", 10.5},
	}

	if len(report.Scenarios) != len(expected) {
		t.Fatalf("expected %d scenarios, got %d", len(expected), len(report.Scenarios))
	}
	for i, want := range expected {
		result := report.Scenarios[i]
		if result.Scenario.Name != want.name {
			t.Errorf("scenario %d = %s, expected %s", i, result.Scenario.Name, want.name)
		}
		if result.NPV != want.npv {
			t.Errorf("scenario %s NPV = %v, expected %v", want.name, result.NPV, want.npv)
		}
		if result.Viability != sensitivity.Viable {
			t.Errorf("scenario %s viability = %s, expected VIABLE", want.name, result.Viability)
		}
		if _, ok := report.Sensitivity[want.name]; !ok {
			t.Errorf("scenario %s missing from sensitivity map", want.name)
		}
	}
}

func validateBreakEven(t *testing.T, report evaluation.Report) {
	t.Helper()

	expected := map[string]float64{
		optimizer.FieldPrice:  1.0774,
		optimizer.FieldVolume: 71.82,
	}
	if len(report.BreakEven) != len(expected) {
		t.Fatalf("expected %d break-even summaries, got %d", len(expected), len(report.BreakEven))
	}
	for _, summary := range report.BreakEven {
		want, ok := expected[summary.Field]
		if !ok {
			t.Errorf("unexpected break-even field %s", summary.Field)
			continue
		}
		if !summary.Converged {
			t.Errorf("break-even search on %s did not converge: %v", summary.Field, summary.Notes)
		}
		if math.Abs(summary.Value-want) > 0.01 {
			t.Errorf("break-even %s = %v, expected about %v", summary.Field, summary.Value, want)
		}
	}
}

func TestExampleConfiguration(t *testing.T) {
	report := loadAndEvaluate(t, "../../project.yaml.example")

	if report.Project != "Gelatin stand" {
		t.Errorf("Project = %q, expected Gelatin stand", report.Project)
	}
	if report.Indicators.NPV != 56.45 {
		t.Errorf("NPV = %v, expected 56.45", report.Indicators.NPV)
	}
	if len(report.Scenarios) != 4 {
		t.Errorf("expected 4 scenarios, got %d", len(report.Scenarios))
	}
	if len(report.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", report.Warnings)
	}
}

func TestOutputFormats(t *testing.T) {
	report := loadAndEvaluate(t, testProjectPath)

	var pretty bytes.Buffer
	if err := output.PrettyFormat(&pretty, report); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	for _, want := range []string{"Gelatin stand", "$56.45", "37.22%", "ACCEPT"} {
		if !strings.Contains(pretty.String(), want) {
			t.Errorf("pretty output missing %q", want)
		}
	}
	if strings.Contains(pretty.String(), string(sensitivity.NotViable)) {
		t.Error("no sample scenario should be labelled NO VIABLE")
	}

	csvData, err := output.CsvString(report)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	if !strings.Contains(csvData, "56.45") {
		t.Errorf("CSV output missing NPV:\n%s", csvData)
	}

	var jsonOut bytes.Buffer
	if err := output.JSONFormat(&jsonOut, report); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}
	var decoded evaluation.Report
	if err := json.Unmarshal(jsonOut.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output does not decode: %v", err)
	}
	if decoded.Indicators.NPV != report.Indicators.NPV || decoded.ID != report.ID {
		t.Errorf("decoded report differs: NPV %v ID %s", decoded.Indicators.NPV, decoded.ID)
	}
}

// TestDataConsistency validates that repeated runs produce identical reports.
func TestDataConsistency(t *testing.T) {
	var first evaluation.Report
	ids := make(map[string]struct{})

	for run := 0; run < 3; run++ {
		report := loadAndEvaluate(t, testProjectPath)
		ids[report.ID] = struct{}{}
		report.ID = ""

		if run == 0 {
			first = report
			continue
		}
		if !reflect.DeepEqual(first, report) {
			t.Fatalf("run %d produced a different report", run)
		}
	}

	if len(ids) != 3 {
		t.Errorf("expected 3 distinct report IDs, got %d", len(ids))
	}
}

func TestConfigurationVariations(t *testing.T) {
	base := loadAndEvaluate(t, testProjectPath)

	tests := []struct {
		name   string
		modify func(*config.Configuration)
		check  func(*testing.T, evaluation.Report)
	}{
		{
			name:   "expensive capital",
			modify: func(c *config.Configuration) { c.Project.DiscountRate = 0.5 },
			check: func(t *testing.T, r evaluation.Report) {
				if r.Indicators.NPV != -9.7 {
					t.Errorf("NPV = %v, expected -9.7", r.Indicators.NPV)
				}
				if r.Indicators.Decision != indicators.DecisionReject {
					t.Errorf("Decision = %s, expected REJECT", r.Indicators.Decision)
				}
				if r.Sensitivity[sensitivity.ScenarioBase].Viability != sensitivity.NotViable {
					t.Errorf("BASE viability = %s, expected NO VIABLE", r.Sensitivity[sensitivity.ScenarioBase].Viability)
				}
			},
		},
		{
			name:   "taxed profits",
			modify: func(c *config.Configuration) { c.Project.TaxRate = 0.3 },
			check: func(t *testing.T, r evaluation.Report) {
				if r.Indicators.NPV >= base.Indicators.NPV || r.Indicators.NPV <= 0 {
					t.Errorf("NPV = %v, expected between 0 and %v", r.Indicators.NPV, base.Indicators.NPV)
				}
				if *r.Indicators.ROI != *base.Indicators.ROI {
					t.Errorf("ROI should be pre-tax: got %v, base %v", *r.Indicators.ROI, *base.Indicators.ROI)
				}
			},
		},
		{
			name:   "break-even disabled",
			modify: func(c *config.Configuration) { c.BreakEven.Enabled = false },
			check: func(t *testing.T, r evaluation.Report) {
				if len(r.BreakEven) != 0 {
					t.Errorf("expected no break-even summaries, got %d", len(r.BreakEven))
				}
			},
		},
		{
			name: "custom scenarios only",
			modify: func(c *config.Configuration) {
				c.Sensitivity.Defaults = false
			},
			check: func(t *testing.T, r evaluation.Report) {
				if len(r.Scenarios) != 1 || r.Scenarios[0].Scenario.Name != "Costs up 50%" {
					t.Errorf("expected only the custom scenario, got %+v", r.Scenarios)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := config.LoadConfiguration(testProjectPath)
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			tt.modify(conf)

			report, err := evaluation.GetEvaluationWithOptions(zap.NewNop(), *conf, evaluation.Options{FixedTime: fixedTime})
			if err != nil {
				t.Fatalf("GetEvaluation() error = %v", err)
			}
			tt.check(t, report)
		})
	}
}

func TestInvalidConfigurationRejected(t *testing.T) {
	conf, err := config.LoadConfiguration(testProjectPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	conf.Costs[0].Amounts = conf.Costs[0].Amounts[:3]

	if _, err := evaluation.GetEvaluation(zap.NewNop(), *conf); err == nil {
		t.Fatal("expected an error for a short amount list")
	}
}
