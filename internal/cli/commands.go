package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"ledger/internal/core"
	"ledger/internal/query"
	"ledger/internal/services"
)

// ErrUsage marks malformed command lines.
var ErrUsage = errors.New("usage")

// Characters that break the comma-separated ledger line.
const unstorable = ",\r\n"

const usage = `usage: ledger <command> [arguments]

commands:
  add <date> <category> <amount> [name...]   record an expense (date YYYY-MM-DD)
  list [period]                              show expenses, all history by default
  summary [period]                           total and category breakdown, current month by default
  remove <index>                             delete the expense shown at index by list
  categories                                 show the suggested categories
  export                                     replace the configured Google Sheet with the ledger

period: "current", a month name such as "march", or YYYY-MM
`

// LedgerExporter replaces a remote copy of the ledger.
type LedgerExporter interface {
	ReplaceAll(ctx context.Context, records []core.Expense) error
}

// App runs text commands against an open ledger.
type App struct {
	Service  *services.LedgerService
	Ledger   *core.Ledger
	Exporter LedgerExporter
	Out      io.Writer
	Now      func() time.Time
}

// Run dispatches args[0] to its command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.Out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		return a.add(ctx, rest)
	case "list":
		return a.list(rest)
	case "summary":
		return a.summary(rest)
	case "remove":
		return a.remove(ctx, rest)
	case "categories":
		for _, c := range core.Categories() {
			fmt.Fprintln(a.Out, c)
		}
		return nil
	case "export":
		return a.export(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.Out, usage)
		return nil
	default:
		fmt.Fprint(a.Out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) add(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: add <date> <category> <amount> [name...]", ErrUsage)
	}
	e, err := a.Service.AddExpense(ctx, a.Ledger, services.ExpenseInput{
		Date:     args[0],
		Category: args[1],
		Amount:   args[2],
		Name:     strings.Join(args[3:], " "),
	})
	if err != nil {
		return err
	}
	if !core.IsKnownCategory(e.Category) {
		fmt.Fprintf(a.Out, "note: %q is not one of the suggested categories\n", e.Category)
	}
	if strings.ContainsAny(e.Name, unstorable) || strings.ContainsAny(e.Category, unstorable) {
		fmt.Fprintln(a.Out, "warning: commas and line breaks in the name or category cannot be stored; this expense will be dropped when the ledger is reloaded")
	}
	fmt.Fprintf(a.Out, "added %s %s %s %s\n", e.Date, e.Category, core.FormatAmount(e.Amount), e.Name)
	return nil
}

func (a *App) period(args []string) (query.Period, bool, error) {
	if len(args) == 0 {
		return query.Period{}, false, nil
	}
	p, err := query.ParsePeriod(strings.Join(args, " "), a.now())
	if err != nil {
		return query.Period{}, false, fmt.Errorf("%w: %q", err, strings.Join(args, " "))
	}
	return p, true, nil
}

func (a *App) list(args []string) error {
	p, filtered, err := a.period(args)
	if err != nil {
		return err
	}

	records := a.Ledger.Records()
	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tNAME\tCATEGORY\tAMOUNT")
	var shown []core.Expense
	for i, e := range records {
		if filtered && !p.Contains(e) {
			continue
		}
		shown = append(shown, e)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, e.Date, e.Name, e.Category, core.FormatAmount(e.Amount))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "total %s\n", core.FormatAmount(query.SumAmount(shown)))
	return nil
}

func (a *App) summary(args []string) error {
	p, ok, err := a.period(args)
	if err != nil {
		return err
	}
	if !ok {
		p = query.CurrentMonth(a.now())
	}

	s := a.Service.Views(a.Ledger, p)
	fmt.Fprintf(a.Out, "%s: %d expenses, total %s\n", p, len(s.Records), core.FormatAmount(s.Total))

	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	for _, c := range s.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\t%s%%\n", c.Name, core.FormatAmount(c.Amount), query.Share(c.Amount, s.Total).StringFixed(2))
	}
	return tw.Flush()
}

func (a *App) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: remove <index>", ErrUsage)
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: index %q is not a number", ErrUsage, args[0])
	}
	e, err := a.Service.RemoveExpense(ctx, a.Ledger, i)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "removed %s %s %s %s\n", e.Date, e.Category, core.FormatAmount(e.Amount), e.Name)
	return nil
}

func (a *App) export(ctx context.Context) error {
	if a.Exporter == nil {
		return errors.New("export: GOOGLE_SPREADSHEET_ID is not configured")
	}
	records := a.Ledger.Records()
	if err := a.Exporter.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(a.Out, "exported %d expenses\n", len(records))
	return nil
}
