package core

import (
	"testing"
	"time"
)

func goalRecords() []MonthlyRecord {
	return []MonthlyRecord{
		{Year: 2024, Month: 12, NewDeposit: 9000, MonthlyLoanPayment: 100},
		{Year: 2025, Month: 1, NewDeposit: 1000, PensionContribution: 200, MonthlyLoanPayment: 800},
		{Year: 2025, Month: 2, NewDeposit: 500, InvestmentPrincipal: 250, MonthlyLoanPayment: 800},
	}
}

func TestGoalProgressByType(t *testing.T) {
	now := time.Date(2025, time.February, 14, 10, 0, 0, 0, time.UTC)
	recs := goalRecords()

	cases := []struct {
		name string
		goal Goal
		want float64
	}{
		{"monthly deposit uses current month allocation", Goal{Type: GoalMonthlyDeposit}, 750},
		{"monthly repayment", Goal{Type: GoalMonthlyRepayment}, 800},
		{"yearly deposit sums current year", Goal{Type: GoalYearlyDeposit}, 1950},
		{"other keeps manual amount", Goal{Type: GoalOther, CurrentAmount: 42}, 42},
	}
	for _, tc := range cases {
		if got := GoalProgress(tc.goal, recs, now); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGoalProgressMissingMonth(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	recs := goalRecords()
	if got := GoalProgress(Goal{Type: GoalMonthlyDeposit, CurrentAmount: 99}, recs, now); got != 0 {
		t.Fatalf("monthly deposit without record = %v", got)
	}
	if got := GoalProgress(Goal{Type: GoalMonthlyRepayment}, recs, now); got != 0 {
		t.Fatalf("monthly repayment without record = %v", got)
	}
	if got := GoalProgress(Goal{Type: GoalYearlyDeposit}, nil, now); got != 0 {
		t.Fatalf("yearly deposit without records = %v", got)
	}
}

func TestPercentComplete(t *testing.T) {
	cases := []struct {
		current, target, want float64
	}{
		{0, 100, 0},
		{25, 100, 25},
		{100, 100, 100},
		{250, 100, 100},
		{10, 0, 0},
		{10, -5, 0},
	}
	for _, tc := range cases {
		if got := PercentComplete(tc.current, tc.target); got != tc.want {
			t.Fatalf("PercentComplete(%v,%v) = %v, want %v", tc.current, tc.target, got, tc.want)
		}
	}
}

func TestEvaluateGoals(t *testing.T) {
	now := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	goals := []Goal{
		{ID: "g1", Type: GoalMonthlyRepayment, Name: "pay", TargetAmount: 800},
		{ID: "g2", Type: GoalYearlyDeposit, Name: "save", TargetAmount: 3900},
		{ID: "g3", Type: GoalOther, Name: "car", TargetAmount: 100, CurrentAmount: 10},
	}

	views := EvaluateGoals(goals, goalRecords(), now)
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	if views[0].Status != GoalSuccess || views[0].Percent != 100 {
		t.Fatalf("repayment goal: %+v", views[0])
	}
	if views[1].Status != GoalInProgress || views[1].Percent != 50 || views[1].CurrentAmount != 1950 {
		t.Fatalf("yearly goal: %+v", views[1])
	}
	if views[2].Percent != 10 {
		t.Fatalf("other goal: %+v", views[2])
	}
	if goals[1].CurrentAmount != 0 {
		t.Fatalf("input goals must not be modified")
	}
}
