package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/client/planapi"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	"github.com/SscSPs/budget_planner/internal/core/services"
	"github.com/SscSPs/budget_planner/internal/repositories/database/sqlite"
	"github.com/SscSPs/budget_planner/internal/utils"
	"github.com/spf13/viper"
)

const usage = `usage: budgetctl [flags] <command>

commands:
  show YYYY-MM          print the plan with actuals and totals
  copy FROM TO          copy the plan of FROM into TO (YYYY-MM each)
  delete YYYY-MM        delete the plan

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "budgetctl:", err)
		os.Exit(1)
	}
}

// cliOptions are resolved from flags, falling back to BUDGETCTL_* environment variables.
type cliOptions struct {
	apiURL   string
	token    string
	sqlite   string
	userID   string
	currency string
	locale   string
	verbose  bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	env := viper.New()
	env.SetEnvPrefix("BUDGETCTL")
	env.AutomaticEnv()
	env.SetDefault("CURRENCY", "EUR")
	env.SetDefault("LOCALE", "en")

	var opts cliOptions
	fs := flag.NewFlagSet("budgetctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.apiURL, "api", env.GetString("API"), "base URL of the plan API, e.g. http://localhost:8080/api/v1")
	fs.StringVar(&opts.token, "token", env.GetString("TOKEN"), "bearer token for the plan API")
	fs.StringVar(&opts.sqlite, "sqlite", env.GetString("SQLITE"), "path of a local SQLite database (instead of -api)")
	fs.StringVar(&opts.userID, "user", env.GetString("USER_ID"), "user id the local plans belong to (with -sqlite)")
	fs.StringVar(&opts.currency, "currency", env.GetString("CURRENCY"), "ISO 4217 currency used for output")
	fs.StringVar(&opts.locale, "locale", env.GetString("LOCALE"), "BCP 47 locale used for output")
	fs.BoolVar(&opts.verbose, "v", false, "log editor activity to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	formatter, err := utils.NewCurrencyFormatter(opts.currency, opts.locale)
	if err != nil {
		return err
	}

	store, closeStore, err := openPlanStore(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	editor := services.NewPlanEditor(store, services.WithEditorLogger(logger))

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "show":
		period, err := periodArgs(rest, 1)
		if err != nil {
			return err
		}
		return showPlan(ctx, editor, period[0], formatter, stdout)
	case "copy":
		periods, err := periodArgs(rest, 2)
		if err != nil {
			return err
		}
		if err := editor.Load(ctx, periods[0]); err != nil {
			return err
		}
		if !editor.HasPersistedPlan() {
			return fmt.Errorf("no plan for %s", periods[0])
		}
		if err := editor.CopyTo(ctx, periods[1]); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "copied %d rows from %s to %s\n", len(editor.Rows()), periods[0], periods[1])
		return nil
	case "delete":
		period, err := periodArgs(rest, 1)
		if err != nil {
			return err
		}
		if err := editor.Load(ctx, period[0]); err != nil {
			return err
		}
		if !editor.HasPersistedPlan() {
			return fmt.Errorf("no plan for %s", period[0])
		}
		if err := editor.Delete(ctx); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted plan %s\n", period[0])
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// openPlanStore selects the remote API or a local SQLite database.
func openPlanStore(opts cliOptions) (portsrepo.PlanStore, func(), error) {
	switch {
	case opts.apiURL != "" && opts.sqlite != "":
		return nil, nil, fmt.Errorf("%w: -api and -sqlite are mutually exclusive", apperrors.ErrValidation)
	case opts.apiURL != "":
		return planapi.New(opts.apiURL, opts.token), func() {}, nil
	case opts.sqlite != "":
		if opts.userID == "" {
			return nil, nil, fmt.Errorf("%w: -user is required with -sqlite", apperrors.ErrValidation)
		}
		db, err := sqlite.NewStore(opts.sqlite)
		if err != nil {
			return nil, nil, err
		}
		repos := sqlite.NewRepositoryProvider(db)
		plans := services.NewServiceContainer(repos).BudgetPlan
		return services.NewUserPlanStore(plans, opts.userID), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: one of -api or -sqlite is required", apperrors.ErrValidation)
	}
}

func periodArgs(args []string, n int) ([]domain.PeriodKey, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: expected %d period argument(s), got %d", apperrors.ErrValidation, n, len(args))
	}
	periods := make([]domain.PeriodKey, 0, n)
	for _, a := range args {
		p, err := domain.ParsePeriodKey(a)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func showPlan(ctx context.Context, editor *services.PlanEditor, period domain.PeriodKey, f *utils.CurrencyFormatter, out io.Writer) error {
	if err := editor.Load(ctx, period); err != nil {
		return err
	}
	if !editor.HasPersistedPlan() {
		fmt.Fprintf(out, "no plan for %s\n", period)
		return nil
	}

	rows := editor.Rows()
	summary := editor.Summary()

	fmt.Fprintf(out, "Budget plan %s\n", period)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, g := range domain.BudgetGroups {
		fmt.Fprintf(tw, "\n%s\t%s\t%s\t%s\t\n", strings.ToUpper(string(g)), "planned", "actual", "diff")
		for _, r := range rows {
			if r.Group != g {
				continue
			}
			name := r.Name
			if !r.IncludeInTotal {
				name += " (excluded)"
			}
			actual, diff := "-", "-"
			if r.Actual != nil {
				actual = f.Format(*r.Actual)
			}
			if r.Diff != nil {
				diff = f.FormatPercent(*r.Diff)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", name, f.Format(r.Amount), actual, diff)
		}
		fmt.Fprintf(tw, "total\t%s\t%s\t\t\n", f.Format(summary.Total(g)), f.FormatPercent(summary.Groups[g].PercentOfIncome))
	}
	fmt.Fprintf(tw, "\nremaining\t%s\t%s\t\t\n", f.Format(summary.RemainingBudget), f.FormatPercent(summary.RemainingBudgetPct))
	return tw.Flush()
}
