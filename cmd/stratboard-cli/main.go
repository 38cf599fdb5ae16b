package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"stratboard/pkg/stratboard"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: stratboard-cli <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  version      Print the CLI version\n")
	fmt.Fprintf(os.Stderr, "  templates    List strategy templates\n")
	fmt.Fprintf(os.Stderr, "  show         Show one template in detail\n")
	fmt.Fprintf(os.Stderr, "  export       Print a template's shareable config as JSON\n")
	fmt.Fprintf(os.Stderr, "  fork         Fork a template\n")
	fmt.Fprintf(os.Stderr, "  forks        List persisted forks\n")
	fmt.Fprintf(os.Stderr, "  summary      Show catalog-wide statistics\n")
	fmt.Fprintf(os.Stderr, "  analyze      Aggregate stored trades (or -file trades.json) into analytics\n")
	fmt.Fprintf(os.Stderr, "  interpret    Rate backtest metrics into qualitative bands\n")
	fmt.Fprintf(os.Stderr, "\nThe server address is read from STRATBOARD_SERVER (default http://localhost:8080).\n")
}

func newClient() *stratboard.Client {
	server := os.Getenv("STRATBOARD_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}
	return stratboard.NewClient(server)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func main() {
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "version":
		fmt.Printf("stratboard-cli %s\n", version)

	case "templates":
		cmdTemplates(ctx, os.Args[2:])

	case "show":
		cmdShow(ctx, os.Args[2:])

	case "export":
		cmdExport(ctx, os.Args[2:])

	case "fork":
		cmdFork(ctx, os.Args[2:])

	case "forks":
		cmdForks(ctx)

	case "summary":
		cmdSummary(ctx)

	case "analyze":
		cmdAnalyze(ctx, os.Args[2:])

	case "interpret":
		cmdInterpret(ctx, os.Args[2:])

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func cmdTemplates(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("templates", flag.ExitOnError)
	category := fs.String("category", "", "filter by category")
	risk := fs.String("risk", "", "filter by risk profile")
	difficulty := fs.String("difficulty", "", "filter by difficulty")
	capital := fs.Float64("capital", 0, "filter by available capital")
	tags := fs.String("tags", "", "comma-separated tags")
	matchAll := fs.Bool("match-all", false, "require every tag")
	sortBy := fs.String("sort", "", "sort by backtest metric (e.g. sharpeRatio)")
	order := fs.String("order", "", "sort order: asc or desc")
	fs.Parse(args)

	filter := stratboard.TemplateFilter{
		Category:   *category,
		Risk:       *risk,
		Difficulty: *difficulty,
		Capital:    *capital,
		MatchAll:   *matchAll,
		Sort:       *sortBy,
		Order:      *order,
	}
	if *tags != "" {
		filter.Tags = strings.Split(*tags, ",")
	}

	list, err := newClient().ListTemplates(ctx, filter)
	if err != nil {
		fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tRISK\tSCORE\tWIN%\tEXP/MO\tMIN CAP")
	for _, t := range list.Templates {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.0f\t%.0f\t%.0f\n",
			t.ID, t.Name, t.Category, t.RiskProfile, t.RiskScore,
			t.WinRate*100, t.ExpectedMonthlyReturn, t.MinCapital)
	}
	w.Flush()
	fmt.Printf("\n%d templates\n", list.Total)
}

func cmdShow(ctx context.Context, args []string) {
	if len(args) < 1 {
		fatal(fmt.Errorf("usage: stratboard-cli show <id>"))
	}
	t, err := newClient().GetTemplate(ctx, args[0])
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%s (%s)\n", t.Name, t.ID)
	fmt.Printf("  %s\n\n", t.Description)
	fmt.Printf("  category:    %s\n", t.Category)
	fmt.Printf("  difficulty:  %s\n", t.Difficulty)
	fmt.Printf("  risk:        %s (score %d/10)\n", t.RiskProfile, t.RiskScore)
	fmt.Printf("  author:      %s  version %s\n", t.Author, t.Version)
	if t.ForkedFrom != "" {
		fmt.Printf("  forked from: %s\n", t.ForkedFrom)
	}
	fmt.Printf("  tags:        %s\n", strings.Join(t.Tags, ", "))
	fmt.Printf("  min capital: %.0f (recommended %.0f)\n",
		t.Requirements.MinCapital, t.Requirements.RecommendedCapital)
	fmt.Printf("  expected monthly return: %.2f\n", t.ExpectedMonthlyReturn)

	if bt := t.Backtest; bt != nil {
		fmt.Printf("\n  backtest (%d trades):\n", bt.TotalTrades)
		fmt.Printf("    win rate:      %.1f%%\n", bt.WinRate*100)
		fmt.Printf("    sharpe:        %.2f\n", bt.SharpeRatio)
		fmt.Printf("    max drawdown:  %.1f%%\n", bt.MaxDrawdown*100)
		fmt.Printf("    profit factor: %.2f\n", bt.ProfitFactor)
		fmt.Printf("    annualized:    %.1f%%\n", bt.AnnualizedReturn*100)
	}

	fmt.Printf("\n  entry rules: %d   exit rules: %d   config keys: %d\n",
		len(t.Rules.Entry), len(t.Rules.Exit), len(t.Config))
}

func cmdExport(ctx context.Context, args []string) {
	if len(args) < 1 {
		fatal(fmt.Errorf("usage: stratboard-cli export <id>"))
	}
	raw, err := newClient().ExportTemplate(ctx, args[0])
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(raw)
	fmt.Println()
}

func cmdFork(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("fork", flag.ExitOnError)
	name := fs.String("name", "", "name for the fork")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fatal(fmt.Errorf("usage: stratboard-cli fork [-name NAME] <id>"))
	}

	res, err := newClient().ForkTemplate(ctx, fs.Arg(0), stratboard.Overrides{Name: *name})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("forked %s -> %s\n", res.Template.ForkedFrom, res.Template.ID)
	if !res.Validation.IsValid {
		fmt.Println("warning: fork has validation errors:")
		for _, e := range res.Validation.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

func cmdForks(ctx context.Context) {
	list, err := newClient().ListForks(ctx)
	if err != nil {
		fatal(err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFORKED FROM\tCREATED")
	for _, f := range list.Forks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			f.ID, f.Name, f.ForkedFrom, f.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	fmt.Printf("\n%d forks\n", list.Total)
}

func cmdSummary(ctx context.Context) {
	s, err := newClient().GetSummary(ctx)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%d templates\n\n", s.Total)
	fmt.Println("by category:")
	for cat, n := range s.ByCategory {
		if n > 0 {
			fmt.Printf("  %-16s %d\n", cat, n)
		}
	}
	fmt.Println("by risk profile:")
	for p, n := range s.ByRiskProfile {
		if n > 0 {
			fmt.Printf("  %-16s %d\n", p, n)
		}
	}
	fmt.Printf("\navg win rate:      %.1f%%\n", s.AvgWinRate*100)
	fmt.Printf("avg annualized:    %.1f%%\n", s.AvgAnnualized*100)
	fmt.Printf("highest win rate:  %.1f%%\n", s.HighestWinRate*100)
	fmt.Printf("highest return:    %.1f%%\n", s.HighestReturn*100)
}

// cmdAnalyze aggregates either the server's stored trade logs for a
// date range, or an ad-hoc trades JSON file given with -file.
func cmdAnalyze(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	file := fs.String("file", "", "aggregate trades from a local JSON file instead of the trade store")
	fs.Parse(args)

	var snap *stratboard.Snapshot
	var err error
	if *file != "" {
		var data []byte
		if data, err = os.ReadFile(*file); err != nil {
			fatal(err)
		}
		var trades []stratboard.Trade
		if err = json.Unmarshal(data, &trades); err != nil {
			fatal(fmt.Errorf("parsing %s: %w", *file, err))
		}
		snap, err = newClient().Analyze(ctx, trades)
	} else {
		var from, to time.Time
		if fs.NArg() > 0 {
			if from, err = time.Parse("2006-01-02", fs.Arg(0)); err != nil {
				fatal(fmt.Errorf("invalid from date %q: %w", fs.Arg(0), err))
			}
		}
		if fs.NArg() > 1 {
			if to, err = time.Parse("2006-01-02", fs.Arg(1)); err != nil {
				fatal(fmt.Errorf("invalid to date %q: %w", fs.Arg(1), err))
			}
		}
		snap, err = newClient().StoredAnalytics(ctx, from, to)
	}
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%d trades  (%d wins, %d losses)\n", snap.TotalTrades, snap.TotalWins, snap.TotalLosses)
	fmt.Printf("  win rate:      %.1f%%\n", snap.WinRate)
	fmt.Printf("  avg win/loss:  %.2f / %.2f\n", snap.AvgWin, snap.AvgLoss)
	fmt.Printf("  expectancy:    %.2f\n", snap.Expectancy)
	if math.IsInf(float64(snap.ProfitFactor), 1) {
		fmt.Println("  profit factor: inf")
	} else {
		fmt.Printf("  profit factor: %.2f\n", float64(snap.ProfitFactor))
	}
	fmt.Printf("  largest win:   %.2f   largest loss: %.2f\n", snap.LargestWin, snap.LargestLoss)

	if snap.BestDay != nil {
		fmt.Printf("\n  best day:  %-9s %+.2f (%d trades)\n", snap.BestDay.Label, snap.BestDay.PnL, snap.BestDay.Trades)
	}
	if snap.WorstDay != nil {
		fmt.Printf("  worst day: %-9s %+.2f (%d trades)\n", snap.WorstDay.Label, snap.WorstDay.PnL, snap.WorstDay.Trades)
	}

	if len(snap.ByPlatform) > 0 {
		fmt.Println("\n  by platform:")
		for _, b := range snap.ByPlatform {
			fmt.Printf("    %-12s %+10.2f  (%d trades, %d wins)\n", b.Label, b.PnL, b.Trades, b.Wins)
		}
	}
	if len(snap.ByStrategy) > 0 {
		fmt.Println("  by strategy:")
		for _, b := range snap.ByStrategy {
			fmt.Printf("    %-12s %+10.2f  (%d trades, %d wins)\n", b.Label, b.PnL, b.Trades, b.Wins)
		}
	}
}

func cmdInterpret(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("interpret", flag.ExitOnError)
	sharpe := fs.Float64("sharpe", math.NaN(), "Sharpe ratio")
	sortino := fs.Float64("sortino", math.NaN(), "Sortino ratio")
	drawdown := fs.Float64("drawdown", math.NaN(), "max drawdown percent")
	pf := fs.Float64("profit-factor", math.NaN(), "profit factor")
	fs.Parse(args)

	var m stratboard.Metrics
	set := func(dst **float64, v float64) {
		if !math.IsNaN(v) {
			*dst = &v
		}
	}
	set(&m.Sharpe, *sharpe)
	set(&m.Sortino, *sortino)
	set(&m.Drawdown, *drawdown)
	set(&m.ProfitFactor, *pf)

	res, err := newClient().Interpret(ctx, m)
	if err != nil {
		fatal(err)
	}
	print := func(name string, r *stratboard.MetricRating) {
		if r != nil {
			fmt.Printf("  %-14s %8.2f  %s\n", name, r.Value, r.Rating)
		}
	}
	print("sharpe", res.Sharpe)
	print("sortino", res.Sortino)
	print("drawdown", res.Drawdown)
	print("profit factor", res.ProfitFactor)
}
