package indicators

import (
	"fmt"
	"strings"

	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/format"
)

// Decision is the qualitative verdict on a project.
type Decision string

const (
	DecisionAccept   Decision = "ACCEPT"
	DecisionReject   Decision = "REJECT"
	DecisionEvaluate Decision = "EVALUATE"
)

// Outcome is the three-way classification shared by the project decision
// and the scenario viability labels.
type Outcome int

const (
	OutcomeNeutral Outcome = iota
	OutcomeFavorable
	OutcomeUnfavorable
)

// Classify applies the first-match rule: favorable when NPV > 0 and IRR >
// rate; unfavorable when NPV < 0 or IRR < rate; neutral otherwise. The two
// clauses overlap and do not cover every combination, e.g. NPV > 0 with IRR
// equal to the rate is neutral. A missing IRR satisfies neither IRR
// comparison.
func Classify(npv float64, irr *float64, rate float64) Outcome {
	if npv > 0 && irr != nil && *irr > rate {
		return OutcomeFavorable
	}
	if npv < 0 || (irr != nil && *irr < rate) {
		return OutcomeUnfavorable
	}
	return OutcomeNeutral
}

// Decide maps the classification onto a Decision.
func Decide(npv float64, irr *float64, rate float64) Decision {
	switch Classify(npv, irr, rate) {
	case OutcomeFavorable:
		return DecisionAccept
	case OutcomeUnfavorable:
		return DecisionReject
	default:
		return DecisionEvaluate
	}
}

// NarrativeInput carries the values the narrative reports on.
type NarrativeInput struct {
	NPV                float64
	IRR                *float64
	DiscountRate       float64
	ProfitabilityIndex *float64
	BenefitCost        *float64
	Payback            *float64
	NonConventional    bool
}

// Narrate produces a deterministic sequence of sentences describing the
// indicators. Undefined indicators are caveated or left out.
func Narrate(in NarrativeInput) string {
	var sentences []string

	switch {
	case in.NPV > 0:
		sentences = append(sentences, fmt.Sprintf("NPV is positive (%s): the project creates value.", format.Currency(in.NPV)))
	case in.NPV < 0:
		sentences = append(sentences, fmt.Sprintf("NPV is negative (%s): the project destroys value.", format.Currency(in.NPV)))
	default:
		sentences = append(sentences, "NPV is zero: the project breaks even.")
	}

	if in.IRR == nil {
		sentences = append(sentences, "IRR could not be determined for these cash flows.")
	} else {
		percent := *in.IRR * constants.PercentageMultiplier
		switch {
		case percent > constants.HighlyAttractiveIRRPercent:
			sentences = append(sentences, fmt.Sprintf("IRR of %.2f%% is above 20%%: highly attractive.", percent))
		case percent > constants.AttractiveIRRPercent:
			sentences = append(sentences, fmt.Sprintf("IRR of %.2f%% is between 10%% and 20%%: attractive with reservations.", percent))
		default:
			sentences = append(sentences, fmt.Sprintf("IRR of %.2f%% is at or below 10%%: not attractive.", percent))
		}

		ratePercent := in.DiscountRate * constants.PercentageMultiplier
		switch {
		case *in.IRR > in.DiscountRate:
			sentences = append(sentences, fmt.Sprintf("IRR exceeds the discount rate of %.2f%%: acceptable.", ratePercent))
		case *in.IRR < in.DiscountRate:
			sentences = append(sentences, fmt.Sprintf("IRR is below the discount rate of %.2f%%: not acceptable.", ratePercent))
		default:
			sentences = append(sentences, fmt.Sprintf("IRR equals the discount rate of %.2f%%: indifferent.", ratePercent))
		}
	}

	if in.ProfitabilityIndex == nil {
		sentences = append(sentences, "Profitability index is undefined without an initial investment.")
	} else if *in.ProfitabilityIndex > 0 {
		sentences = append(sentences, fmt.Sprintf("Profitability index %.4f > 0: profitable.", *in.ProfitabilityIndex))
	} else if *in.ProfitabilityIndex < 0 {
		sentences = append(sentences, fmt.Sprintf("Profitability index %.4f < 0: not profitable.", *in.ProfitabilityIndex))
	}

	if in.BenefitCost != nil && *in.BenefitCost > 1 {
		sentences = append(sentences, fmt.Sprintf("Benefit/cost ratio %.4f > 1: benefits exceed costs.", *in.BenefitCost))
	}

	if in.Payback != nil {
		sentences = append(sentences, fmt.Sprintf("Payback: %.2f periods.", *in.Payback))
	}

	if in.NonConventional {
		sentences = append(sentences, "Cash flows change sign more than once, so the IRR may not be unique.")
	}

	return strings.Join(sentences, " ")
}
