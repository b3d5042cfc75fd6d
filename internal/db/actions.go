package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/quotes-etl/models"
	"github.com/dtnitsch/quotes-etl/pkg/storage"
)

func Command() *cli.Command {
	dbFlag := &cli.StringFlag{Name: "db", Value: models.DefaultDBName, Usage: "SQLite run history path"}
	return &cli.Command{
		Name:  "db",
		Usage: "inspect the run history",
		Subcommands: []*cli.Command{
			{
				Name:   "runs",
				Usage:  "list recorded runs, newest first",
				Flags:  []cli.Flag{dbFlag, &cli.IntFlag{Name: "limit", Value: 20}},
				Action: RunsAction,
			},
			{
				Name:      "run",
				Usage:     "show one run (default: latest)",
				ArgsUsage: "[run-id]",
				Flags:     []cli.Flag{dbFlag, &cli.BoolFlag{Name: "quotes", Usage: "also list the valid quotes"}},
				Action:    RunAction,
			},
			{
				Name:      "report",
				Usage:     "print the stored report of a run",
				ArgsUsage: "[run-id]",
				Flags:     []cli.Flag{dbFlag, &cli.StringFlag{Name: "format", Value: "yaml", Usage: "yaml or json"}},
				Action:    ReportAction,
			},
		},
	}
}

func RunsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-36s %-20s %-6s %-8s %-8s %-7s %s\n",
		"Run", "Started", "Pages", "Quotes", "Invalid", "Errors", "Base URL")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, r := range runs {
		m := r.Report.ProcessingMetrics
		fmt.Fprintf(w, "%-36s %-20s %-6d %-8d %-8d %-7d %s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			m.PagesScraped,
			r.Report.TotalQuotes,
			m.InvalidRecords,
			m.ErrorsEncountered,
			r.BaseURL,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'quotes-etl db run <id>' to see details\n")
	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}
	pages, err := database.GetRunPages(runID)
	if err != nil {
		return err
	}
	failures, err := database.GetRunFailures(runID)
	if err != nil {
		return err
	}
	rejections, err := database.GetRunRejections(runID)
	if err != nil {
		return err
	}

	w := c.App.Writer
	m := run.Report.ProcessingMetrics
	fmt.Fprintf(w, "Run %s\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Duration:    %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(w, "Base URL:    %s\n", run.BaseURL)
	fmt.Fprintf(w, "Quotes:      %d extracted, %d cleaned, %d valid\n", m.QuotesExtracted, m.QuotesCleaned, run.Report.TotalQuotes)
	fmt.Fprintf(w, "Removed:     %d duplicates, %d invalid\n", m.DuplicatesRemoved, m.InvalidRecords)
	fmt.Fprintf(w, "Authors:     %d unique\n", run.Report.UniqueAuthors)
	fmt.Fprintf(w, "Averages:    %.2f words, %.2f characters\n", run.Report.AvgWordCount, run.Report.AvgCharacterCount)

	fmt.Fprintf(w, "\nPages (%d):\n", len(pages))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, p := range pages {
		source := "network"
		if p.FromCache {
			source = "cache"
		}
		fmt.Fprintf(w, "%2d. %s (%d quotes, %s)\n", i+1, p.URL, p.QuoteCount, source)
	}

	if len(rejections) > 0 {
		fmt.Fprintf(w, "\nRejected (%d):\n", len(rejections))
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, r := range rejections {
			fmt.Fprintf(w, "#%d [%s] %q by %q\n", r.Quote.ExtractionOrder, r.Reason, r.Quote.QuoteText, r.Quote.Author)
		}
	}

	if len(failures) > 0 {
		fmt.Fprintf(w, "\nFailures (%d):\n", len(failures))
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, f := range failures {
			fmt.Fprintf(w, "[%s] %s: %s\n", f.ErrorType, f.URL, f.Message)
		}
	}

	if c.Bool("quotes") {
		quotes, err := database.GetRunQuotes(runID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nQuotes (%d):\n", len(quotes))
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, q := range quotes {
			fmt.Fprintf(w, "%q - %s [%s]\n", q.QuoteText, q.Author, strings.Join(q.Tags, ", "))
		}
	}

	fmt.Fprintf(w, "\nTip: Use 'quotes-etl db report %s' to see the report\n", run.RunID)
	return nil
}

// ReportAction prints the stored report of a run as YAML or JSON
func ReportAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}
	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}

	w := c.App.Writer
	var data []byte
	switch strings.ToLower(c.String("format")) {
	case "yaml":
		fmt.Fprintf(w, "# Run: %s\n", run.RunID)
		data, err = storage.EncodeYAML(run.Report)
	case "json":
		data, err = storage.EncodeJSON(run.Report)
	default:
		return errors.WithHint(errors.Newf("unknown format: %s", c.String("format")), "use yaml or json")
	}
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}
