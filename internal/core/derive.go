package core

import (
	"iter"

	"github.com/shopspring/decimal"
)

// CumulativePoint is one element of the running-total projection.
type CumulativePoint struct {
	Deposit     float64 `json:"cumulativeDeposit"`
	Pension     float64 `json:"cumulativePension"`
	Principal   float64 `json:"cumulativePrincipal"`
	Return      float64 `json:"cumulativeReturn"`
	LoanPayment float64 `json:"cumulativeLoanPayment"`
}

// TotalIncome sums the fixed income fields and the itemized incomes in order.
func TotalIncome(salary, sideJob, providentFund float64, otherIncomes []LineItem) float64 {
	return dec(salary).Add(dec(sideJob)).Add(dec(providentFund)).Add(sumItems(otherIncomes)).InexactFloat64()
}

// TotalExpense sums the loan repayment and the itemized expenses in order.
func TotalExpense(loanRepayment float64, otherExpenses []LineItem) float64 {
	return dec(loanRepayment).Add(sumItems(otherExpenses)).InexactFloat64()
}

// NetSavings is income minus expense and may be negative.
func NetSavings(income, expense float64) float64 {
	return dec(income).Sub(dec(expense)).InexactFloat64()
}

// AllocationSum is the part of net savings routed to deposit, pension and investment.
func AllocationSum(newDeposit, pensionContribution, investmentPrincipal float64) float64 {
	return dec(newDeposit).Add(dec(pensionContribution)).Add(dec(investmentPrincipal)).InexactFloat64()
}

// SavingsRate returns netSavings as a percentage of totalIncome, or 0 when there is no income.
func SavingsRate(netSavings, totalIncome float64) float64 {
	return percentOf(dec(netSavings), dec(totalIncome))
}

// ReturnRatio returns totalReturn as a percentage of totalPrincipal, or 0 when there is no principal.
//
// The figure is shown as the "annualized return" but it is a cumulative
// return-over-principal ratio: it is not normalized by elapsed time.
func ReturnRatio(totalReturn, totalPrincipal float64) float64 {
	return percentOf(dec(totalReturn), dec(totalPrincipal))
}

func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// WithTotals returns r with TotalIncome, TotalExpense and NetSavings recomputed from its inputs.
func (r MonthlyRecord) WithTotals() MonthlyRecord {
	r.TotalIncome = TotalIncome(r.Salary, r.SideJob, r.ProvidentFund, r.OtherIncomes)
	r.TotalExpense = TotalExpense(r.LoanRepayment, r.OtherExpenses)
	r.NetSavings = NetSavings(r.TotalIncome, r.TotalExpense)
	return r
}

// Allocated returns the record's allocation sum.
func (r MonthlyRecord) Allocated() float64 {
	return AllocationSum(r.NewDeposit, r.PensionContribution, r.InvestmentPrincipal)
}

// Cumulative folds records, in the order given, into running totals seeded
// from the baseline. The loan-payment total always starts at zero.
// Records are not sorted; callers pass them chronologically. Each iteration
// restarts from the baseline.
func Cumulative(records []MonthlyRecord, baseline InitialAssets) iter.Seq[CumulativePoint] {
	return func(yield func(CumulativePoint) bool) {
		deposit := dec(baseline.Deposit)
		pension := dec(baseline.Pension)
		principal := dec(baseline.InvestmentPrincipal)
		ret := dec(baseline.InvestmentReturn)
		loan := decimal.Zero

		for _, r := range records {
			deposit = deposit.Add(dec(r.NewDeposit))
			pension = pension.Add(dec(r.PensionContribution))
			principal = principal.Add(dec(r.InvestmentPrincipal))
			ret = ret.Add(dec(r.InvestmentReturn))
			loan = loan.Add(dec(r.MonthlyLoanPayment))

			p := CumulativePoint{
				Deposit:     deposit.InexactFloat64(),
				Pension:     pension.InexactFloat64(),
				Principal:   principal.InexactFloat64(),
				Return:      ret.InexactFloat64(),
				LoanPayment: loan.InexactFloat64(),
			}
			if !yield(p) {
				return
			}
		}
	}
}

// CumulativeSeries materializes Cumulative; the result has one point per record.
func CumulativeSeries(records []MonthlyRecord, baseline InitialAssets) []CumulativePoint {
	out := make([]CumulativePoint, 0, len(records))
	for p := range Cumulative(records, baseline) {
		out = append(out, p)
	}
	return out
}
