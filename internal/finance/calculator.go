package finance

import (
	"fmt"
	"math"
	"sort"

	"github.com/motoria/dealer-agent/internal/types"
)

const (
	// MinTermYears and MaxTermYears bound the financing terms the business
	// offers. The engine rejects anything outside; user-input recovery
	// (defaulting an out-of-range term) happens at the handler layer only.
	MinTermYears = 3
	MaxTermYears = 6

	// DefaultAnnualRate is the fixed yearly interest rate.
	DefaultAnnualRate = 0.10
)

// InvalidTermError reports a term outside [MinTermYears, MaxTermYears].
type InvalidTermError struct {
	TermYears int
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("financing term must be between %d and %d years, got %d", MinTermYears, MaxTermYears, e.TermYears)
}

// InvalidDownPaymentError reports a down payment exceeding the price.
type InvalidDownPaymentError struct {
	Price       float64
	DownPayment float64
}

func (e *InvalidDownPaymentError) Error() string {
	return fmt.Sprintf("down payment %.2f cannot exceed price %.2f", e.DownPayment, e.Price)
}

// Calculate computes an amortization plan for the financed amount
// (price - down payment) over termYears at the given annual rate.
//
// If the down payment covers the full price the plan degenerates to zero
// financing: no monthly payment, no interest, total paid equals the down
// payment. A zero rate reduces the payment to straight division.
func Calculate(price, downPayment, annualRate float64, termYears int) (types.FinancingPlan, error) {
	if termYears < MinTermYears || termYears > MaxTermYears {
		return types.FinancingPlan{}, &InvalidTermError{TermYears: termYears}
	}
	if downPayment > price {
		return types.FinancingPlan{}, &InvalidDownPaymentError{Price: price, DownPayment: downPayment}
	}

	financed := price - downPayment
	if financed <= 0 {
		return types.FinancingPlan{
			FinancedAmount: 0,
			MonthlyPayment: 0,
			TotalPaid:      round2(downPayment),
			TotalInterest:  0,
			TermYears:      0,
			TermMonths:     0,
			AnnualRate:     annualRate,
		}, nil
	}

	n := termYears * 12
	r := annualRate / 12

	var monthly float64
	if r == 0 {
		monthly = financed / float64(n)
	} else {
		monthly = r * financed / (1 - math.Pow(1+r, -float64(n)))
	}

	totalPaid := monthly*float64(n) + downPayment
	totalInterest := monthly*float64(n) - financed

	return types.FinancingPlan{
		FinancedAmount: round2(financed),
		MonthlyPayment: round2(monthly),
		TotalPaid:      round2(totalPaid),
		TotalInterest:  round2(totalInterest),
		TermYears:      termYears,
		TermMonths:     n,
		AnnualRate:     annualRate,
	}, nil
}

// Options enumerates financing plans across down payments of 10/20/30% of the
// price and every valid term, sorted by monthly payment ascending. A positive
// maxMonthly filters out plans above that payment.
func Options(price, annualRate, maxMonthly float64) []types.FinancingPlan {
	downPercentages := []float64{0.10, 0.20, 0.30}

	var options []types.FinancingPlan
	for _, pct := range downPercentages {
		for term := MinTermYears; term <= MaxTermYears; term++ {
			plan, err := Calculate(price, price*pct, annualRate, term)
			if err != nil {
				continue
			}
			if maxMonthly > 0 && plan.MonthlyPayment > maxMonthly {
				continue
			}
			options = append(options, plan)
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].MonthlyPayment < options[j].MonthlyPayment
	})
	return options
}

// DescribePlan renders a deterministic plan summary. Used as the response
// body when the generation backend cannot phrase the numbers itself.
func DescribePlan(plan types.FinancingPlan, price, downPayment float64) string {
	if plan.FinancedAmount == 0 {
		return fmt.Sprintf(
			"Your down payment of $%.2f MXN covers the full price. Nothing to finance and no interest to pay.",
			downPayment)
	}
	return fmt.Sprintf(
		"Financing plan: price $%.2f MXN, down payment $%.2f MXN, financed amount $%.2f MXN over %d years (%d months). "+
			"Monthly payment: $%.2f MXN. Total paid: $%.2f MXN. Total interest: $%.2f MXN (%.0f%% fixed annual rate).",
		price, downPayment, plan.FinancedAmount, plan.TermYears, plan.TermMonths,
		plan.MonthlyPayment, plan.TotalPaid, plan.TotalInterest, plan.AnnualRate*100)
}

// round2 rounds half-up to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
