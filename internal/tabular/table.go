// Package tabular converts ledger records to and from spreadsheet rows.
//
// Exports carry one row per record under a fixed header. Imports are lossy:
// itemized income and expense lists are not read back, and the total
// columns are taken as they are without being recomputed.
package tabular

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"finledger/internal/core"
)

const (
	ColYear                     = "Year"
	ColMonth                    = "Month"
	ColSalary                   = "Salary"
	ColSideJob                  = "SideJob"
	ColProvidentFund            = "ProvidentFund"
	ColOtherIncomes             = "OtherIncomes"
	ColTotalIncome              = "TotalIncome"
	ColLoanRepayment            = "LoanRepayment"
	ColOtherExpenses            = "OtherExpenses"
	ColTotalExpense             = "TotalExpense"
	ColNetSavings               = "NetSavings"
	ColNewDeposit               = "NewDeposit"
	ColTotalDeposit             = "TotalDeposit"
	ColPensionContribution      = "PensionContribution"
	ColPensionBalance           = "PensionBalance"
	ColInvestmentPrincipal      = "InvestmentPrincipal"
	ColTotalInvestmentPrincipal = "TotalInvestmentPrincipal"
	ColInvestmentReturn         = "InvestmentReturn"
	ColTotalInvestmentReturn    = "TotalInvestmentReturn"
	ColMonthlyLoanPayment       = "MonthlyLoanPayment"
	ColLoanBalance              = "LoanBalance"
)

// Columns is the export header, in order.
var Columns = []string{
	ColYear, ColMonth,
	ColSalary, ColSideJob, ColProvidentFund, ColOtherIncomes, ColTotalIncome,
	ColLoanRepayment, ColOtherExpenses, ColTotalExpense,
	ColNetSavings,
	ColNewDeposit, ColTotalDeposit,
	ColPensionContribution, ColPensionBalance,
	ColInvestmentPrincipal, ColTotalInvestmentPrincipal,
	ColInvestmentReturn, ColTotalInvestmentReturn,
	ColMonthlyLoanPayment, ColLoanBalance,
}

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidRow    = errors.New("invalid row")
)

// Table is a header plus rows of cells. Cells are strings, ints or float64s.
type Table struct {
	Header []string
	Rows   [][]any
}

// FileName returns the export file name for a year, or for all years when year is nil.
func FileName(year *int, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if year == nil {
		return "finledger_all." + ext
	}
	return fmt.Sprintf("finledger_%d.%s", *year, ext)
}

// FormatItems renders line items as "name:amount" pairs separated by "; ".
func FormatItems(items []core.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Name+":"+strconv.FormatFloat(it.Amount, 'f', -1, 64))
	}
	return strings.Join(parts, "; ")
}

// Encode builds the export table for the records of year, or all records when year is nil.
func Encode(records []core.MonthlyRecord, year *int) Table {
	selected := core.RecordsInYear(records, year)
	t := Table{Header: append([]string(nil), Columns...), Rows: make([][]any, 0, len(selected))}
	for _, r := range selected {
		t.Rows = append(t.Rows, []any{
			r.Year, r.Month,
			r.Salary, r.SideJob, r.ProvidentFund, FormatItems(r.OtherIncomes), r.TotalIncome,
			r.LoanRepayment, FormatItems(r.OtherExpenses), r.TotalExpense,
			r.NetSavings,
			r.NewDeposit, r.TotalDeposit,
			r.PensionContribution, r.PensionBalance,
			r.InvestmentPrincipal, r.TotalInvestmentPrincipal,
			r.InvestmentReturn, r.TotalInvestmentReturn,
			r.MonthlyLoanPayment, r.LoanBalance,
		})
	}
	return t
}

// Decode reads records from a table whose header names the columns.
// Column order is free and unknown columns are ignored. Empty rows are
// skipped. Year and Month must be integers with Month in 1..12, otherwise the
// whole decode fails. Any other missing or non-numeric cell reads as 0.
func Decode(t Table) ([]core.MonthlyRecord, error) {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, c := range []string{ColYear, ColMonth} {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	out := make([]core.MonthlyRecord, 0, len(t.Rows))
	for n, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		// header is line 1
		line := n + 2
		cell := func(col string) any {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return nil
			}
			return row[i]
		}
		num := func(col string) float64 {
			v, ok := number(cell(col))
			if !ok {
				return 0
			}
			return v
		}

		year, err := integer(cell(ColYear))
		if err != nil {
			return nil, fmt.Errorf("%w %d: year: %v", ErrInvalidRow, line, err)
		}
		month, err := integer(cell(ColMonth))
		if err != nil {
			return nil, fmt.Errorf("%w %d: month: %v", ErrInvalidRow, line, err)
		}
		if err := (core.MonthKey{Year: year, Month: month}).Validate(); err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrInvalidRow, line, err)
		}

		out = append(out, core.MonthlyRecord{
			Year:                     year,
			Month:                    month,
			Salary:                   num(ColSalary),
			SideJob:                  num(ColSideJob),
			ProvidentFund:            num(ColProvidentFund),
			OtherIncomes:             []core.LineItem{},
			TotalIncome:              num(ColTotalIncome),
			LoanRepayment:            num(ColLoanRepayment),
			OtherExpenses:            []core.LineItem{},
			TotalExpense:             num(ColTotalExpense),
			NetSavings:               num(ColNetSavings),
			NewDeposit:               num(ColNewDeposit),
			TotalDeposit:             num(ColTotalDeposit),
			PensionContribution:      num(ColPensionContribution),
			PensionBalance:           num(ColPensionBalance),
			InvestmentPrincipal:      num(ColInvestmentPrincipal),
			TotalInvestmentPrincipal: num(ColTotalInvestmentPrincipal),
			InvestmentReturn:         num(ColInvestmentReturn),
			TotalInvestmentReturn:    num(ColTotalInvestmentReturn),
			MonthlyLoanPayment:       num(ColMonthlyLoanPayment),
			LoanBalance:              num(ColLoanBalance),
		})
	}
	return out, nil
}

// StringRows converts string rows as produced by CSV and spreadsheet readers into table rows.
func StringRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		cells := make([]any, len(r))
		for j, c := range r {
			cells[j] = c
		}
		out[i] = cells
	}
	return out
}

// CellString renders a cell for text formats.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

func blankRow(row []any) bool {
	for _, c := range row {
		if strings.TrimSpace(CellString(c)) != "" {
			return false
		}
	}
	return true
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := core.ParseAmount(x)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func integer(v any) (int, error) {
	f, ok := number(v)
	if !ok {
		return 0, fmt.Errorf("not a number: %q", CellString(v))
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	return int(f), nil
}
