package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"finledger/internal/tabular"
	"finledger/internal/tabular/csvtable"
	"finledger/internal/tabular/xlsx"
)

// formatOf picks the table format from an explicit flag or the file extension.
func formatOf(flagValue, path string) (string, error) {
	v := flagValue
	if v == "" {
		v = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch v {
	case "", "csv":
		return "csv", nil
	case "xlsx":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("unsupported format %q (want csv or xlsx)", v)
	}
}

type importCmd struct {
	file   string
	format string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge monthly records from a csv or xlsx file" }
func (*importCmd) Usage() string {
	return `finledgerctl import -f <file> [-format csv|xlsx]

  Each row replaces the record of the same month or is added as a new one.
  Itemized incomes and expenses are not part of the file format and come in
  empty. A malformed file changes nothing.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "File to import.")
	f.StringVar(&c.format, "format", "", "File format. Defaults to the file extension.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "-f is required")
		return subcommands.ExitUsageError
	}
	format, err := formatOf(c.format, c.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	fh, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer fh.Close()

	var reader tabular.Reader = csvtable.NewReader(fh)
	if format == "xlsx" {
		reader = xlsx.NewReader(fh)
	}

	ledger, _, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLedger(ledger)

	res, err := ledger.Service.Import(ctx, reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %s: %d inserted, %d replaced\n", c.file, res.Inserted, res.Replaced)
	return subcommands.ExitSuccess
}

type exportCmd struct {
	out    string
	dir    string
	format string
	year   string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write monthly records to a csv or xlsx file" }
func (*exportCmd) Usage() string {
	return `finledgerctl export [-o <file> | -dir <folder>] [-format csv|xlsx] [-year YYYY]

  Without -o the file is named finledger_<year>.<ext> (or finledger_all.<ext>)
  inside -dir.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "Output file. Overrides -dir.")
	f.StringVar(&c.dir, "dir", ".", "Output folder for the default file name.")
	f.StringVar(&c.format, "format", "", "File format. Defaults to the -o extension, then csv.")
	f.StringVar(&c.year, "year", "", "Only export this year.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year, err := parseYearFlag(c.year)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	format, err := formatOf(c.format, c.out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	path := c.out
	if path == "" {
		path = filepath.Join(c.dir, tabular.FileName(year, format))
	}

	ledger, _, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLedger(ledger)

	var writer tabular.Writer = xlsx.FileWriter{Path: path}
	if format == "csv" {
		writer = csvFile(path)
	}
	rows, err := ledger.Service.Export(ctx, writer, year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %d rows to %s\n", rows, path)
	return subcommands.ExitSuccess
}

// csvFile adapts csvtable.WriteFile to tabular.Writer.
type csvFile string

func (p csvFile) WriteTable(ctx context.Context, t tabular.Table) error {
	return csvtable.WriteFile(ctx, string(p), t)
}
