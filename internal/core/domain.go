package core

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

const (
	GoalMonthlyDeposit   GoalType = "monthlyDeposit"
	GoalMonthlyRepayment GoalType = "monthlyRepayment"
	GoalYearlyDeposit    GoalType = "yearlyDeposit"
	GoalOther            GoalType = "other"
)

type (
	GoalType string

	// LineItem is a named amount in the itemized income or expense lists.
	LineItem struct {
		ID     string  `json:"id,omitempty"`
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}

	// MonthlyRecord is one month's income, expense, allocation and loan snapshot.
	// Year and Month form the natural key; ID is a surrogate kept across edits.
	MonthlyRecord struct {
		ID    string `json:"id"`
		Year  int    `json:"year"`
		Month int    `json:"month"`

		Salary        float64    `json:"salary"`
		SideJob       float64    `json:"sideJob"`
		ProvidentFund float64    `json:"providentFund"`
		OtherIncomes  []LineItem `json:"otherIncomes"`
		TotalIncome   float64    `json:"totalIncome"`

		LoanRepayment float64    `json:"loanRepayment"`
		OtherExpenses []LineItem `json:"otherExpenses"`
		TotalExpense  float64    `json:"totalExpense"`

		NetSavings float64 `json:"netSavings"`

		NewDeposit   float64 `json:"newDeposit"`
		TotalDeposit float64 `json:"totalDeposit"`

		PensionContribution float64 `json:"pensionContribution"`
		PensionBalance      float64 `json:"pensionBalance"`

		InvestmentPrincipal      float64 `json:"investmentPrincipal"`
		TotalInvestmentPrincipal float64 `json:"totalInvestmentPrincipal"`

		InvestmentReturn      float64 `json:"investmentReturn"` // signed
		TotalInvestmentReturn float64 `json:"totalInvestmentReturn"`

		MonthlyLoanPayment float64 `json:"monthlyLoanPayment"`
		LoanBalance        float64 `json:"loanBalance"`

		CreatedAt Timestamp `json:"createdAt"`
		UpdatedAt Timestamp `json:"updatedAt"`
	}

	// InitialAssets is the one-time baseline every cumulative roll-forward starts from.
	InitialAssets struct {
		Deposit             float64 `json:"deposit"`
		Loan                float64 `json:"loan"`
		Pension             float64 `json:"pension"`
		InvestmentPrincipal float64 `json:"investmentPrincipal"`
		InvestmentReturn    float64 `json:"investmentReturn"` // signed
	}

	Goal struct {
		ID            string    `json:"id"`
		Type          GoalType  `json:"type"`
		Name          string    `json:"name"`
		TargetAmount  float64   `json:"targetAmount"`
		CurrentAmount float64   `json:"currentAmount"`
		CreatedAt     Timestamp `json:"createdAt"`
		UpdatedAt     Timestamp `json:"updatedAt"`
	}

	// AppData is the root aggregate persisted as a single blob.
	AppData struct {
		IsInitialized bool            `json:"isInitialized"`
		InitialAssets *InitialAssets  `json:"initialAssets"`
		MonthlyData   []MonthlyRecord `json:"monthlyData"`
		Goals         []Goal          `json:"goals"`
	}

	// MonthKey identifies a MonthlyRecord.
	MonthKey struct {
		Year  int
		Month int
	}
)

var (
	ErrInvalidYear     = errors.New("invalid year")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("negative amount")
	ErrEmptyItemName   = errors.New("empty item name")
	ErrEmptyGoalName   = errors.New("empty goal name")
	ErrInvalidGoalType = errors.New("invalid goal type")
	ErrInvalidTarget   = errors.New("invalid target amount")
)

// EmptyAppData returns the uninitialized aggregate.
func EmptyAppData() AppData {
	return AppData{
		MonthlyData: []MonthlyRecord{},
		Goals:       []Goal{},
	}
}

// Normalize replaces nil collections with empty ones so the persisted shape is stable.
func (d AppData) Normalize() AppData {
	if d.MonthlyData == nil {
		d.MonthlyData = []MonthlyRecord{}
	}
	for i := range d.MonthlyData {
		d.MonthlyData[i] = d.MonthlyData[i].normalizeItems()
	}
	if d.Goals == nil {
		d.Goals = []Goal{}
	}
	return d
}

// Baseline returns the initial assets, or the zero baseline when not set.
func (d AppData) Baseline() InitialAssets {
	if d.InitialAssets == nil {
		return InitialAssets{}
	}
	return *d.InitialAssets
}

func (r MonthlyRecord) Key() MonthKey {
	return MonthKey{Year: r.Year, Month: r.Month}
}

func (r MonthlyRecord) normalizeItems() MonthlyRecord {
	if r.OtherIncomes == nil {
		r.OtherIncomes = []LineItem{}
	}
	if r.OtherExpenses == nil {
		r.OtherExpenses = []LineItem{}
	}
	return r
}

// Compare orders keys chronologically.
func (k MonthKey) Compare(o MonthKey) int {
	if c := cmp.Compare(k.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(k.Month, o.Month)
}

// String returns the YYYY-MM form of the key.
func (k MonthKey) String() string {
	return DateKey(k.Year, k.Month)
}

func (k MonthKey) Validate() error {
	if k.Year < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, k.Year)
	}
	if k.Month < 1 || k.Month > 12 {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, k.Month)
	}
	return nil
}

// SortRecords sorts records ascending by (year, month) in place.
func SortRecords(records []MonthlyRecord) {
	slices.SortStableFunc(records, func(a, b MonthlyRecord) int {
		return a.Key().Compare(b.Key())
	})
}

func (r MonthlyRecord) Validate() error {
	if err := r.Key().Validate(); err != nil {
		return err
	}
	amounts := []struct {
		name   string
		value  float64
		signed bool
	}{
		{"salary", r.Salary, false},
		{"sideJob", r.SideJob, false},
		{"providentFund", r.ProvidentFund, false},
		{"loanRepayment", r.LoanRepayment, false},
		{"newDeposit", r.NewDeposit, false},
		{"totalDeposit", r.TotalDeposit, false},
		{"pensionContribution", r.PensionContribution, false},
		{"pensionBalance", r.PensionBalance, false},
		{"investmentPrincipal", r.InvestmentPrincipal, false},
		{"totalInvestmentPrincipal", r.TotalInvestmentPrincipal, false},
		{"investmentReturn", r.InvestmentReturn, true},
		{"totalInvestmentReturn", r.TotalInvestmentReturn, true},
		{"monthlyLoanPayment", r.MonthlyLoanPayment, false},
		{"loanBalance", r.LoanBalance, false},
	}
	for _, a := range amounts {
		if err := checkAmount(a.name, a.value, a.signed); err != nil {
			return err
		}
	}
	if err := validateItems("otherIncomes", r.OtherIncomes); err != nil {
		return err
	}
	return validateItems("otherExpenses", r.OtherExpenses)
}

func (a InitialAssets) Validate() error {
	for name, v := range map[string]float64{
		"deposit":             a.Deposit,
		"loan":                a.Loan,
		"pension":             a.Pension,
		"investmentPrincipal": a.InvestmentPrincipal,
	} {
		if err := checkAmount(name, v, false); err != nil {
			return err
		}
	}
	return checkAmount("investmentReturn", a.InvestmentReturn, true)
}

func (t GoalType) IsValid() bool {
	switch t {
	case GoalMonthlyDeposit, GoalMonthlyRepayment, GoalYearlyDeposit, GoalOther:
		return true
	default:
		return false
	}
}

func (g Goal) Validate() error {
	if !g.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidGoalType, g.Type)
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if !isFinite(g.TargetAmount) || g.TargetAmount <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, g.TargetAmount)
	}
	return checkAmount("currentAmount", g.CurrentAmount, false)
}

func validateItems(field string, items []LineItem) error {
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%s[%d]: %w", field, i, ErrEmptyItemName)
		}
		if err := checkAmount(fmt.Sprintf("%s[%d]", field, i), it.Amount, false); err != nil {
			return err
		}
	}
	return nil
}

func checkAmount(name string, v float64, signed bool) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, name)
	}
	if !signed && v < 0 {
		return fmt.Errorf("%w: %s %v", ErrNegativeAmount, name, v)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
