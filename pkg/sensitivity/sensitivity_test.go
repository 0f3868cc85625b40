package sensitivity

import (
	"math"
	"testing"

	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/project"
	"github.com/iwvelando/project-viability/pkg/testutil"
)

func TestRunDefaultSampleProject(t *testing.T) {
	engine := NewEngine(nil)

	results, err := engine.RunDefault(testutil.SampleProject())
	if err != nil {
		t.Fatalf("RunDefault() error = %v", err)
	}

	tests := []struct {
		name string
		npv  float64
		irr  float64
	}{
		{ScenarioPessimistic, 51.56, 0.3461},
		{ScenarioBase, 56.45, 0.3722},
		{ScenarioOptimistic, 42.46, 0.2968},
	}

	if len(results) != len(tests) {
		t.Fatalf("RunDefault() returned %d results, expected %d", len(results), len(tests))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := results[tt.name]
			if !ok {
				t.Fatalf("missing scenario %s", tt.name)
			}
			if result.NPV != tt.npv {
				t.Errorf("NPV = %v, expected %v", result.NPV, tt.npv)
			}
			if result.IRR == nil || *result.IRR != tt.irr {
				t.Errorf("IRR = %v, expected %v", result.IRR, tt.irr)
			}
			if result.Viability != Viable {
				t.Errorf("Viability = %s, expected %s", result.Viability, Viable)
			}
			if result.Scenario.Name != tt.name {
				t.Errorf("Scenario echo = %q, expected %q", result.Scenario.Name, tt.name)
			}
		})
	}

	if results[ScenarioPessimistic].NPV >= results[ScenarioBase].NPV {
		t.Errorf("pessimistic NPV %v should be below base NPV %v",
			results[ScenarioPessimistic].NPV, results[ScenarioBase].NPV)
	}
}

func TestRunCustom(t *testing.T) {
	engine := NewEngine(nil)
	scenarios := []Scenario{
		{Name: "Costs up 50%", DiscountRate: 0.04, Price: 1.5, CostFactor: 150, VolumeFactor: 100},
		{Name: "Expensive capital", DiscountRate: 0.5, Price: 1.5, CostFactor: 100, VolumeFactor: 100},
	}

	results, err := engine.RunCustom(testutil.SampleProject(), scenarios)
	if err != nil {
		t.Fatalf("RunCustom() error = %v", err)
	}

	costsUp := results["Costs up 50%"]
	if costsUp.NPV != 10.5 || costsUp.Viability != Viable {
		t.Errorf("Costs up 50%%: NPV = %v, viability = %s; expected 10.5, %s", costsUp.NPV, costsUp.Viability, Viable)
	}

	expensive := results["Expensive capital"]
	if expensive.NPV != -9.7 || expensive.Viability != NotViable {
		t.Errorf("Expensive capital: NPV = %v, viability = %s; expected -9.7, %s", expensive.NPV, expensive.Viability, NotViable)
	}
}

func TestRunCustomDuplicateNamesOverwrite(t *testing.T) {
	engine := NewEngine(nil)
	scenarios := []Scenario{
		{Name: "Same", DiscountRate: 0.04, Price: 2, CostFactor: 100, VolumeFactor: 73.17},
		{Name: "Same", DiscountRate: 0.04, Price: 1.5, CostFactor: 100, VolumeFactor: 100},
	}

	results, err := engine.RunCustom(testutil.SampleProject(), scenarios)
	if err != nil {
		t.Fatalf("RunCustom() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results["Same"].NPV != 56.45 {
		t.Errorf("NPV = %v, expected the later scenario's 56.45", results["Same"].NPV)
	}
}

func TestRunPreservesOrder(t *testing.T) {
	results, err := NewEngine(nil).Run(testutil.SampleProject(), DefaultScenarios(0.04))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	expected := []string{ScenarioPessimistic, ScenarioBase, ScenarioOptimistic}
	for i, name := range expected {
		if results[i].Scenario.Name != name {
			t.Errorf("results[%d] = %s, expected %s", i, results[i].Scenario.Name, name)
		}
	}
}

func TestRunInvalidHorizon(t *testing.T) {
	p := testutil.SampleProject()
	p.Parameters.Horizon = 3

	if _, err := NewEngine(nil).RunDefault(p); err == nil {
		t.Error("RunDefault() with invalid horizon should fail")
	}
}

func TestSimulateDoesNotMutate(t *testing.T) {
	p := testutil.SampleProject()
	original := testutil.SampleProject()

	Simulate(p, Scenario{Name: "x", DiscountRate: 0.3, Price: 9, CostFactor: 300, VolumeFactor: 10})

	if p.Parameters != original.Parameters {
		t.Errorf("parameters mutated: %+v", p.Parameters)
	}
	for i := range p.Costs {
		if p.Costs[i].AmountAt(0) != original.Costs[i].AmountAt(0) {
			t.Errorf("cost %d mutated", i)
		}
	}
	if p.Revenues[0].AmountAt(0) != 45 {
		t.Errorf("revenue mutated: %v", p.Revenues[0].AmountAt(0))
	}
}

func TestSimulate(t *testing.T) {
	p := testutil.SampleProject()
	p.Costs = append(p.Costs, project.CostItem{Name: "Stand", Category: project.CategoryInvestment, Amounts: project.Periods{10, 0, 0, 0, 0}})

	simulated := Simulate(p, Scenario{DiscountRate: 0.1, Price: 2, CostFactor: 50, VolumeFactor: 200})

	if simulated.Parameters.DiscountRate != 0.1 || simulated.Parameters.UnitPrice != 2 {
		t.Errorf("parameters = %+v", simulated.Parameters)
	}
	if simulated.Parameters.ProductionUnits != 60 {
		t.Errorf("ProductionUnits = %v, expected 60", simulated.Parameters.ProductionUnits)
	}
	if simulated.Parameters.TaxRate != p.Parameters.TaxRate || simulated.Parameters.InitialInvestment != p.Parameters.InitialInvestment {
		t.Error("tax rate and initial investment must carry over")
	}

	last := simulated.Costs[len(simulated.Costs)-1]
	if last.CostCategory() != project.CategoryInvestment || last.AmountAt(0) != 5 {
		t.Errorf("simulated cost = %v (%s), expected 5 (investment)", last.AmountAt(0), last.CostCategory())
	}

	for k := 0; k < constants.Horizon; k++ {
		// 30 baseline units × 2 × 2.00
		if got := simulated.Revenues[0].AmountAt(k); math.Abs(got-120) > 1e-9 {
			t.Errorf("revenue[%d] = %v, expected 120", k, got)
		}
	}
}

func TestBaselineUnits(t *testing.T) {
	tests := []struct {
		name      string
		revenue   project.RevenueItem
		unitPrice float64
		expected  float64
	}{
		{
			name:      "Derived from first-period amount",
			revenue:   project.RevenueItem{Amounts: project.Flat(45), Units: [4]int{99, 0, 0, 0}},
			unitPrice: 1.5,
			expected:  30,
		},
		{
			name:      "Falls back to period-1 units",
			revenue:   project.RevenueItem{Amounts: project.Flat(45), Units: [4]int{20, 0, 0, 0}},
			unitPrice: 0,
			expected:  20,
		},
		{
			name:      "Falls back to the default unit count",
			revenue:   project.RevenueItem{Amounts: project.Flat(45)},
			unitPrice: 0,
			expected:  constants.FallbackBaselineUnits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaselineUnits(tt.revenue, tt.unitPrice); got != tt.expected {
				t.Errorf("BaselineUnits() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestSimulateUnitFallback(t *testing.T) {
	p := testutil.SampleProject()
	p.Parameters.UnitPrice = 0
	p.Revenues = project.Revenues(project.RevenueItem{Amounts: project.Flat(45), Units: [4]int{20, 20, 20, 20}})

	simulated := Simulate(p, Scenario{Price: 1.5, CostFactor: 100, VolumeFactor: 100})
	if got := simulated.Revenues[0].AmountAt(0); got != 30 {
		t.Errorf("revenue = %v, expected 30 (20 units × 1.50)", got)
	}
}

func TestAssess(t *testing.T) {
	rate := 0.04
	irr := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		npv      float64
		irr      *float64
		expected Viability
	}{
		{"Favorable", 10, irr(0.2), Viable},
		{"Negative NPV", -1, irr(0.2), NotViable},
		{"IRR below rate", 1, irr(0.01), NotViable},
		{"IRR at rate", 1, irr(0.04), Indifferent},
		{"No IRR and positive NPV", 1, nil, Indifferent},
		{"No IRR and negative NPV", -1, nil, NotViable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assess(tt.npv, tt.irr, rate); got != tt.expected {
				t.Errorf("Assess() = %s, expected %s", got, tt.expected)
			}
		})
	}
}
