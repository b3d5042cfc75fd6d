package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/quotes-etl/internal/db"
	"github.com/dtnitsch/quotes-etl/internal/run"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "quotes-etl",
		Usage:   "scrape quotes.toscrape.com, clean and validate the quotes, write files and a report",
		Version: version,
		Commands: []*cli.Command{
			run.Command(),
			db.Command(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(run.ExitFatal)
	}
}
