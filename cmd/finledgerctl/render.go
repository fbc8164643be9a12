package main

import (
	"fmt"
	"strings"

	"finledger/internal/core"
)

func overviewMarkdown(ov core.Overview, currency string) string {
	var b strings.Builder
	title := "All years"
	if ov.Year != nil {
		title = fmt.Sprintf("%d", *ov.Year)
	}
	fmt.Fprintf(&b, "# Overview: %s\n\n", title)

	money := func(v float64) string { return core.FormatCurrency(v, currency) }
	b.WriteString("| | Latest month | Cumulative |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Deposited | %s | %s |\n", money(ov.Latest.Deposited), money(ov.Cumulative.Deposited))
	fmt.Fprintf(&b, "| Repaid | %s | %s |\n", money(ov.Latest.Repaid), money(ov.Cumulative.Repaid))
	fmt.Fprintf(&b, "| Returned | %s | %s |\n", money(ov.Latest.Returned), money(ov.Cumulative.Returned))
	fmt.Fprintf(&b, "| Saved | %s | %s |\n\n", money(ov.Latest.Saved), money(ov.Cumulative.Saved))

	fmt.Fprintf(&b, "- Savings rate: **%s**\n", core.FormatPercent(ov.SavingsRate))
	fmt.Fprintf(&b, "- Return ratio: **%s**\n", core.FormatPercent(ov.ReturnRatio))
	if len(ov.Years) > 0 {
		years := make([]string, len(ov.Years))
		for i, y := range ov.Years {
			years[i] = fmt.Sprintf("%d", y)
		}
		fmt.Fprintf(&b, "- Years on record: %s\n", strings.Join(years, ", "))
	}
	return b.String()
}

func goalsMarkdown(views []core.GoalView, currency string) string {
	if len(views) == 0 {
		return "_No goals yet._\n"
	}
	var b strings.Builder
	b.WriteString("# Goals\n\n| ID | Name | Type | Progress | Target | % | Status |\n|---|---|---|---:|---:|---:|---|\n")
	for _, v := range views {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			v.ID, escapeCell(v.Name), v.Type,
			core.FormatCurrency(v.CurrentAmount, currency),
			core.FormatCurrency(v.TargetAmount, currency),
			core.FormatPercent(v.Percent), v.Status)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
