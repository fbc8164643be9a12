package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"finledger/internal/core"
)

type initCmd struct {
	deposit, loan, pension, principal, ret float64
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "record the opening balances and start the ledger" }
func (*initCmd) Usage() string {
	return `finledgerctl init [-deposit N] [-loan N] [-pension N] [-principal N] [-return N]

  Sets the baseline every cumulative figure starts from. Running it again
  replaces the baseline and keeps existing records.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.deposit, "deposit", 0, "Opening deposit balance.")
	f.Float64Var(&c.loan, "loan", 0, "Opening loan balance.")
	f.Float64Var(&c.pension, "pension", 0, "Opening pension balance.")
	f.Float64Var(&c.principal, "principal", 0, "Opening investment principal.")
	f.Float64Var(&c.ret, "return", 0, "Opening accumulated investment return (may be negative).")
}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLedger(ledger)

	baseline := core.InitialAssets{
		Deposit:             c.deposit,
		Loan:                c.loan,
		Pension:             c.pension,
		InvestmentPrincipal: c.principal,
		InvestmentReturn:    c.ret,
	}
	if err := ledger.Service.Initialize(ctx, baseline); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Ledger initialized.")
	return subcommands.ExitSuccess
}

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "erase every record, goal and the baseline" }
func (*resetCmd) Usage() string {
	return `finledgerctl reset -yes

  Deletes the stored ledger. There is no undo.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset.")
}

func (c *resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Refusing to reset without -yes")
		return subcommands.ExitUsageError
	}
	ledger, _, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLedger(ledger)

	if err := ledger.Service.Reset(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error resetting ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Ledger reset.")
	return subcommands.ExitSuccess
}

type saveCmd struct {
	file string
}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "add or replace a monthly record from JSON" }
func (*saveCmd) Usage() string {
	return `finledgerctl save [-f record.json]

  Reads one monthly record as JSON (from -f or stdin). The record is rejected
  when deposit, pension and investment principal do not add up to its net
  savings. A record for an existing month replaces it.
`
}

func (c *saveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "JSON file with the record. Reads stdin when empty.")
}

func (c *saveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rec, err := readRecord(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading record: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, cfg, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLedger(ledger)

	saved, err := ledger.Service.SaveRecord(ctx, rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving record: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Saved %s (id %s), net savings %s\n", saved.Key(), saved.ID, core.FormatCurrency(saved.NetSavings, cfg.Currency))
	return subcommands.ExitSuccess
}

func readRecord(path string) (core.MonthlyRecord, error) {
	var src io.Reader = os.Stdin
	if path != "" {
		fh, err := os.Open(path)
		if err != nil {
			return core.MonthlyRecord{}, err
		}
		defer fh.Close()
		src = fh
	}
	var rec core.MonthlyRecord
	if err := json.NewDecoder(src).Decode(&rec); err != nil {
		return core.MonthlyRecord{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete monthly records by id" }
func (*deleteCmd) Usage() string {
	return `finledgerctl delete <id>...
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one record id is required")
		return subcommands.ExitUsageError
	}
	ledger, _, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLedger(ledger)

	for _, id := range f.Args() {
		removed, err := ledger.Service.DeleteRecord(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting %s: %v\n", id, err)
			return subcommands.ExitFailure
		}
		if !removed {
			fmt.Printf("%s: not found\n", id)
			continue
		}
		fmt.Printf("%s: deleted\n", id)
	}
	return subcommands.ExitSuccess
}
