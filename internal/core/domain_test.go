package core

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestMonthlyRecordValidate(t *testing.T) {
	good := MonthlyRecord{
		Year:             2025,
		Month:            1,
		Salary:           5000,
		InvestmentReturn: -120.5,
		OtherIncomes:     []LineItem{{Name: "bonus", Amount: 100}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		rec  MonthlyRecord
		want error
	}{
		{"negative year", MonthlyRecord{Year: -1, Month: 1}, ErrInvalidYear},
		{"month zero", MonthlyRecord{Year: 2025, Month: 0}, ErrInvalidMonth},
		{"month thirteen", MonthlyRecord{Year: 2025, Month: 13}, ErrInvalidMonth},
		{"negative salary", MonthlyRecord{Year: 2025, Month: 1, Salary: -1}, ErrNegativeAmount},
		{"negative loan balance", MonthlyRecord{Year: 2025, Month: 1, LoanBalance: -0.01}, ErrNegativeAmount},
		{"nan deposit", MonthlyRecord{Year: 2025, Month: 1, NewDeposit: math.NaN()}, ErrInvalidAmount},
		{"blank item name", MonthlyRecord{Year: 2025, Month: 1, OtherExpenses: []LineItem{{Name: " ", Amount: 1}}}, ErrEmptyItemName},
		{"negative item", MonthlyRecord{Year: 2025, Month: 1, OtherIncomes: []LineItem{{Name: "x", Amount: -1}}}, ErrNegativeAmount},
	}
	for _, tc := range cases {
		err := tc.rec.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestInitialAssetsValidate(t *testing.T) {
	if err := (InitialAssets{Deposit: 1000, InvestmentReturn: -50}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (InitialAssets{Loan: -1}).Validate(); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{Type: GoalYearlyDeposit, Name: "save", TargetAmount: 10000}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		g    Goal
		want error
	}{
		{Goal{Type: "weekly", Name: "x", TargetAmount: 1}, ErrInvalidGoalType},
		{Goal{Type: GoalOther, Name: "  ", TargetAmount: 1}, ErrEmptyGoalName},
		{Goal{Type: GoalOther, Name: "x", TargetAmount: 0}, ErrInvalidTarget},
		{Goal{Type: GoalOther, Name: "x", TargetAmount: -5}, ErrInvalidTarget},
	}
	for i, tc := range bads {
		if err := tc.g.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestSortRecords(t *testing.T) {
	recs := []MonthlyRecord{
		{ID: "c", Year: 2025, Month: 2},
		{ID: "a", Year: 2024, Month: 12},
		{ID: "b", Year: 2025, Month: 1},
	}
	SortRecords(recs)
	got := recs[0].ID + recs[1].ID + recs[2].ID
	if got != "abc" {
		t.Fatalf("unexpected order %q", got)
	}
}

func TestMonthKeyString(t *testing.T) {
	if got := (MonthKey{Year: 2025, Month: 3}).String(); got != "2025-03" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestAppDataJSONShape(t *testing.T) {
	created := time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)
	data := AppData{
		IsInitialized: true,
		InitialAssets: &InitialAssets{Deposit: 1000},
		MonthlyData: []MonthlyRecord{{
			ID: "r1", Year: 2025, Month: 1, Salary: 3000,
			CreatedAt: At(created), UpdatedAt: At(created),
		}},
	}.Normalize()

	b, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{
		`"isInitialized":true`,
		`"initialAssets":{"deposit":1000,`,
		`"otherIncomes":[]`,
		`"goals":[]`,
		`"createdAt":1738310400000`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("encoded data missing %s: %s", want, s)
		}
	}

	var back AppData
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.MonthlyData[0].CreatedAt.Equal(created) {
		t.Fatalf("createdAt changed: %v", back.MonthlyData[0].CreatedAt)
	}
}

func TestEmptyAppDataEncodesCollections(t *testing.T) {
	b, err := json.Marshal(EmptyAppData())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"isInitialized":false,"initialAssets":null,"monthlyData":[],"goals":[]}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestTimestampZeroRoundTrip(t *testing.T) {
	var ts Timestamp
	b, _ := json.Marshal(ts)
	if string(b) != "0" {
		t.Fatalf("zero timestamp encoded as %s", b)
	}
	if err := json.Unmarshal([]byte("null"), &ts); err != nil || !ts.IsZero() {
		t.Fatalf("null should decode to zero, got %v err=%v", ts, err)
	}
}
