package indicators

import (
	"math"

	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/mathutil"
	"github.com/iwvelando/project-viability/pkg/project"
)

// IRRSolution is the outcome of the bisection search.
type IRRSolution struct {
	// Rate is the root rounded to 4 decimals; meaningful only when Converged.
	Rate       float64
	Root       float64
	Iterations int
	Converged  bool
}

// Value returns the rounded rate, or nil when the solver found no result.
func (s IRRSolution) Value() *float64 {
	if !s.Converged {
		return nil
	}
	rate := s.Rate
	return &rate
}

// SolveIRR finds the rate at which the NPV of the flows is zero by bisection
// over [constants.IRRLowerBound, constants.IRRUpperBound].
//
// NPV is assumed to decrease with the rate: a positive midpoint NPV raises the
// lower bound, anything else lowers the upper bound. When NPV is not positive
// at the lower bound and negative at the upper bound the root is not
// bracketed under that assumption and no result is reported.
func SolveIRR(flows project.Periods, investment float64) IRRSolution {
	lower, upper := constants.IRRLowerBound, constants.IRRUpperBound

	if !(NetPresentValue(flows, lower, investment) > 0 && NetPresentValue(flows, upper, investment) < 0) {
		return IRRSolution{}
	}

	for i := 1; i <= constants.IRRMaxIterations; i++ {
		mid := (lower + upper) / 2
		npv := NetPresentValue(flows, mid, investment)

		if math.Abs(npv) < constants.IRRTolerance {
			return converged(mid, i)
		}

		if npv > 0 {
			lower = mid
		} else {
			upper = mid
		}

		if math.Abs(upper-lower) < constants.IRRBracketWidth {
			return converged(mid, i)
		}
	}

	return IRRSolution{Iterations: constants.IRRMaxIterations}
}

func converged(root float64, iterations int) IRRSolution {
	return IRRSolution{
		Rate:       mathutil.RoundTo(root, constants.RatioDecimals),
		Root:       root,
		Iterations: iterations,
		Converged:  true,
	}
}
