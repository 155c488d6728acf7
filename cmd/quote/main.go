// Command quote fetches one or more symbols and prints a comparison to the terminal.
//
//	quote AAPL MSFT GOOGL
//
// Set EXPORT_DIR to also write each symbol's history as CSV.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"TickerLens/internal/aggregate"
	"TickerLens/internal/collector"
	"TickerLens/internal/config"
	"TickerLens/internal/export"
	"TickerLens/internal/format"
	"TickerLens/internal/insight"
	"TickerLens/internal/model"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	symbols := collector.ParseSymbols(strings.Join(os.Args[1:], " "))
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "usage: quote SYMBOL [SYMBOL...]")
		os.Exit(2)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.ValidateDataSource(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher, err := collector.NewFetcher(cfg)
	if err != nil {
		log.Fatalf("[FATAL] init fetcher: %v", err)
	}

	set := collector.NewCollector(fetcher).Collect(ctx, symbols)
	printReport(os.Stdout, set)

	if dir := os.Getenv("EXPORT_DIR"); dir != "" {
		if err := exportAll(dir, set); err != nil {
			log.Fatalf("[FATAL] export: %v", err)
		}
	}
	if len(set.Succeeded()) == 0 {
		os.Exit(1)
	}
}

func printReport(out io.Writer, set *model.ComparisonSet) {
	for _, rec := range set.Succeeded() {
		fmt.Fprintf(out, "%s  %s (1Y)\n", rec.Symbol, format.Percent(rec.PriceChange))
		for _, n := range insight.RecentNews(rec.News, insight.MaxHeadlines) {
			fmt.Fprintf(out, "  %s  %s (%s)\n", format.Timestamp(n.PublishedAt), n.Title, n.Publisher)
		}
	}

	cmp := aggregate.Compare(set)
	if len(cmp.Table.Columns) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(w, "Metric\t%s\t\n", strings.Join(cmp.Table.Columns, "\t"))
		for _, row := range cmp.Table.Rows {
			cells := make([]string, len(row.Values))
			for i, v := range row.Values {
				cells[i] = format.Metric(row.Metric, v)
			}
			fmt.Fprintf(w, "%s\t%s\t\n", row.Metric, strings.Join(cells, "\t"))
		}
		w.Flush()
	}

	if len(cmp.Series) > 0 {
		fmt.Fprintln(out, "\nRebased change")
		for _, s := range cmp.Series {
			fmt.Fprintf(out, "  %-8s %s\n", s.Symbol, format.Percent(s.Final()))
		}
	}

	if len(cmp.Failures) > 0 {
		fmt.Fprintln(out, "\nFailed")
		for _, f := range cmp.Failures {
			fmt.Fprintf(out, "  %-8s %s\n", f.Symbol, f.Error)
		}
	}
}

func exportAll(dir string, set *model.ComparisonSet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, rec := range set.Succeeded() {
		data, err := export.CSV(rec)
		if err != nil {
			return fmt.Errorf("export %s: %w", rec.Symbol, err)
		}
		path := filepath.Join(dir, export.FileName(rec.Symbol))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("[INFO] wrote %s (%d rows)", path, len(rec.History))
	}
	return nil
}
