package db

import (
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/quotes-etl/pkg/db"
)

// GetRunIDOrLatest returns the run id from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (string, error) {
	if c.NArg() == 0 {
		return database.LatestRunID()
	}
	return c.Args().First(), nil
}

func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	return database, nil
}
