package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalInProgress GoalStatus = "in_progress"
	GoalSuccess    GoalStatus = "success"
)

type GoalStatus string

// GoalView is a goal with its progress evaluated against the records.
type GoalView struct {
	Goal
	Percent float64    `json:"percent"`
	Status  GoalStatus `json:"status"`
}

// FindRecord returns the record for (year, month), if any.
func FindRecord(records []MonthlyRecord, year, month int) (MonthlyRecord, bool) {
	for _, r := range records {
		if r.Year == year && r.Month == month {
			return r, true
		}
	}
	return MonthlyRecord{}, false
}

// GoalProgress recomputes a goal's current amount for the calendar month and year of now.
// Goals of type other keep the amount stored on them.
func GoalProgress(g Goal, records []MonthlyRecord, now time.Time) float64 {
	year, month := now.Year(), int(now.Month())

	switch g.Type {
	case GoalMonthlyDeposit:
		if r, ok := FindRecord(records, year, month); ok {
			return r.Allocated()
		}
		return 0
	case GoalMonthlyRepayment:
		if r, ok := FindRecord(records, year, month); ok {
			return r.MonthlyLoanPayment
		}
		return 0
	case GoalYearlyDeposit:
		total := decimal.Zero
		for _, r := range records {
			if r.Year == year {
				total = total.Add(dec(r.Allocated()))
			}
		}
		return total.InexactFloat64()
	default:
		return g.CurrentAmount
	}
}

// PercentComplete caps progress at 100%. A non-positive target yields 0.
func PercentComplete(current, target float64) float64 {
	t := dec(target)
	if !t.IsPositive() {
		return 0
	}
	ratio := decimal.Min(dec(current).Div(t), decimal.NewFromInt(1))
	return ratio.Mul(hundred).InexactFloat64()
}

func StatusFor(percent float64) GoalStatus {
	if percent >= 100 {
		return GoalSuccess
	}
	return GoalInProgress
}

// EvaluateGoals projects every goal against the records as of now.
func EvaluateGoals(goals []Goal, records []MonthlyRecord, now time.Time) []GoalView {
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		g.CurrentAmount = GoalProgress(g, records, now)
		pct := PercentComplete(g.CurrentAmount, g.TargetAmount)
		views = append(views, GoalView{Goal: g, Percent: pct, Status: StatusFor(pct)})
	}
	return views
}
