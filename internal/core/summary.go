package core

import (
	"slices"

	"github.com/shopspring/decimal"
)

// PeriodStats are the headline figures shown for a month or for the whole history.
type PeriodStats struct {
	Deposited float64 `json:"deposited"`
	Repaid    float64 `json:"repaid"`
	Returned  float64 `json:"returned"`
	Saved     float64 `json:"saved"`
}

// Overview is the dashboard projection over a snapshot.
type Overview struct {
	Year        *int        `json:"year,omitempty"`
	Latest      PeriodStats `json:"latest"`
	Cumulative  PeriodStats `json:"cumulative"`
	SavingsRate float64     `json:"savingsRate"`
	ReturnRatio float64     `json:"returnRatio"`
	Years       []int       `json:"years"`
}

// RecordsInYear returns the records of one year; a nil year returns all of them.
func RecordsInYear(records []MonthlyRecord, year *int) []MonthlyRecord {
	if year == nil {
		return records
	}
	out := make([]MonthlyRecord, 0, len(records))
	for _, r := range records {
		if r.Year == *year {
			out = append(out, r)
		}
	}
	return out
}

// Years lists the distinct record years in ascending order.
func Years(records []MonthlyRecord) []int {
	years := make([]int, 0)
	for _, r := range records {
		if !slices.Contains(years, r.Year) {
			years = append(years, r.Year)
		}
	}
	slices.Sort(years)
	return years
}

// Summarize builds the overview for the given year filter (nil for all years).
//
// Latest figures come from the last record of the filtered slice. Cumulative
// figures always roll forward the full history from the baseline and stay zero
// until the ledger has a baseline. The return ratio compares the return and
// principal accumulated since the baseline.
func Summarize(data AppData, year *int) Overview {
	ov := Overview{Year: year, Years: Years(data.MonthlyData)}

	filtered := RecordsInYear(data.MonthlyData, year)
	if n := len(filtered); n > 0 {
		latest := filtered[n-1]
		ov.Latest = PeriodStats{
			Deposited: latest.Allocated(),
			Repaid:    latest.MonthlyLoanPayment,
			Returned:  latest.InvestmentReturn,
			Saved:     latest.NetSavings,
		}
		ov.SavingsRate = SavingsRate(latest.NetSavings, latest.TotalIncome)
	}

	if data.InitialAssets == nil || len(data.MonthlyData) == 0 {
		return ov
	}
	base := *data.InitialAssets
	series := CumulativeSeries(data.MonthlyData, base)
	last := series[len(series)-1]

	saved := decimal.Zero
	for _, r := range data.MonthlyData {
		saved = saved.Add(dec(r.NetSavings))
	}
	ov.Cumulative = PeriodStats{
		Deposited: dec(last.Deposit).Add(dec(last.Pension)).Add(dec(last.Principal)).InexactFloat64(),
		Repaid:    last.LoanPayment,
		Returned:  last.Return,
		Saved:     saved.InexactFloat64(),
	}
	ov.ReturnRatio = ReturnRatio(
		dec(last.Return).Sub(dec(base.InvestmentReturn)).InexactFloat64(),
		dec(last.Principal).Sub(dec(base.InvestmentPrincipal)).InexactFloat64(),
	)
	return ov
}
