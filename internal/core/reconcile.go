package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ReconciliationTolerance absorbs floating-point rounding between net savings
// and the allocation sum. It is not a business allowance.
const ReconciliationTolerance = 0.01

var ErrAllocationMismatch = errors.New("net savings allocation mismatch")

var tolerance = decimal.NewFromFloat(ReconciliationTolerance)

// AllocationError reports both sides of a failed reconciliation for display.
type AllocationError struct {
	NetSavings    float64
	AllocationSum float64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("net savings %s does not match allocation sum %s",
		dec(e.NetSavings).StringFixed(2), dec(e.AllocationSum).StringFixed(2))
}

func (e *AllocationError) Unwrap() error { return ErrAllocationMismatch }

// Reconcile checks that the record's deposit, pension and investment principal
// allocations add up to the net savings derived from its income and expense
// inputs. The stored totals on r are ignored and recomputed.
func Reconcile(r MonthlyRecord) error {
	income := TotalIncome(r.Salary, r.SideJob, r.ProvidentFund, r.OtherIncomes)
	expense := TotalExpense(r.LoanRepayment, r.OtherExpenses)
	net := dec(income).Sub(dec(expense))
	alloc := dec(r.NewDeposit).Add(dec(r.PensionContribution)).Add(dec(r.InvestmentPrincipal))

	if net.Sub(alloc).Abs().GreaterThan(tolerance) {
		return &AllocationError{
			NetSavings:    net.InexactFloat64(),
			AllocationSum: alloc.InexactFloat64(),
		}
	}
	return nil
}
