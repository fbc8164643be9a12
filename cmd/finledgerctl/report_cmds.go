package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"finledger/internal/core"
)

type overviewCmd struct {
	year string
}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display savings, repayment and return figures" }
func (*overviewCmd) Usage() string {
	return `finledgerctl overview [-year YYYY]

  Shows the latest month of the selected year next to the cumulative figures
  since the baseline, with the savings rate and the return ratio.
`
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.year, "year", "", "Year to report on. Defaults to all years.")
}

func (c *overviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year, err := parseYearFlag(c.year)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	ledger, cfg, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLedger(ledger)

	ov, err := ledger.Service.Overview(ctx, year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(overviewMarkdown(ov, cfg.Currency))
	return subcommands.ExitSuccess
}

type goalsCmd struct{}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "list goals with their current progress" }
func (*goalsCmd) Usage() string {
	return `finledgerctl goals
`
}

func (*goalsCmd) SetFlags(*flag.FlagSet) {}

func (*goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, cfg, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLedger(ledger)

	views, err := ledger.Service.Goals(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading goals: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(goalsMarkdown(views, cfg.Currency))
	return subcommands.ExitSuccess
}

type goalAddCmd struct {
	goalType string
	name     string
	target   float64
	current  float64
}

func (*goalAddCmd) Name() string     { return "goal-add" }
func (*goalAddCmd) Synopsis() string { return "add a savings or repayment goal" }
func (*goalAddCmd) Usage() string {
	return `finledgerctl goal-add -type <type> -name <name> -target N [-current N]

  Types: monthlyDeposit, monthlyRepayment, yearlyDeposit, other. Only goals of
  type other use -current; the others are measured from the records.
`
}

func (c *goalAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.goalType, "type", string(core.GoalOther), "Goal type.")
	f.StringVar(&c.name, "name", "", "Goal name.")
	f.Float64Var(&c.target, "target", 0, "Target amount.")
	f.Float64Var(&c.current, "current", 0, "Current amount for goals of type other.")
}

func (c *goalAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	goal := core.Goal{
		Type:          core.GoalType(c.goalType),
		Name:          c.name,
		TargetAmount:  c.target,
		CurrentAmount: c.current,
	}
	if err := goal.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	ledger, _, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLedger(ledger)

	added, err := ledger.Service.AddGoal(ctx, goal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding goal: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added goal %s (%s)\n", added.Name, added.ID)
	return subcommands.ExitSuccess
}
