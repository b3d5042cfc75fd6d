package db

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/quotes-etl/models"
	dbpkg "github.com/dtnitsch/quotes-etl/pkg/db"
)

func seedDB(t *testing.T, runIDs ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")

	database, err := dbpkg.Open(path)
	require.NoError(t, err)
	defer database.Close()

	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range runIDs {
		out := models.RunOutput{
			RunID:      id,
			StartedAt:  started.Add(time.Duration(i) * time.Hour),
			FinishedAt: started.Add(time.Duration(i)*time.Hour + 2*time.Second),
			BaseURL:    "http://quotes.toscrape.com",
			Quotes: []models.Quote{{
				QuoteText: "Be yourself.", Author: "Oscar Wilde", Tags: []string{"honesty"},
				SourceURL: "http://quotes.toscrape.com/page/1/", WordCount: 2, TagCount: 1, CharacterCount: 12,
			}},
			Rejections: []models.Rejection{{Quote: models.Quote{QuoteText: "Hi", Author: "Someone"}, Reason: models.ReasonQuoteTooShort}},
			Pages:      []models.PageMeta{{URL: "http://quotes.toscrape.com/page/1/", QuoteCount: 2}},
			Report: models.Report{
				TotalQuotes:       1,
				UniqueAuthors:     1,
				TopAuthors:        models.Counts{{Key: "Oscar Wilde", Count: 1}},
				TopTags:           models.Counts{{Key: "honesty", Count: 1}},
				ProcessingMetrics: models.RunMetrics{PagesScraped: 1, QuotesExtracted: 2, QuotesCleaned: 2, InvalidRecords: 1, ErrorsEncountered: 1},
			},
		}
		require.NoError(t, database.InsertRun(context.Background(), out))
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := &cli.App{
		Name:     "quotes-etl",
		Writer:   &buf,
		Commands: []*cli.Command{Command()},
	}
	err := app.Run(append([]string{"quotes-etl"}, args...))
	return buf.String(), err
}

func TestRunsAction(t *testing.T) {
	path := seedDB(t, "run-old", "run-new")

	out, err := runApp(t, "db", "runs", "--db", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Total: 2 runs")
	assert.Less(t, bytes.Index([]byte(out), []byte("run-new")), bytes.Index([]byte(out), []byte("run-old")))

	empty := filepath.Join(t.TempDir(), "empty.db")
	out, err = runApp(t, "db", "runs", "--db", empty)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found")
}

func TestRunAction(t *testing.T) {
	path := seedDB(t, "run-old", "run-new")

	out, err := runApp(t, "db", "run", "--db", path, "--quotes")
	require.NoError(t, err)
	assert.Contains(t, out, "Run run-new")
	assert.Contains(t, out, "Duration:    2s")
	assert.Contains(t, out, "[quote_too_short]")
	assert.Contains(t, out, `"Be yourself." - Oscar Wilde [honesty]`)

	out, err = runApp(t, "db", "run", "--db", path, "run-old")
	require.NoError(t, err)
	assert.Contains(t, out, "Run run-old")

	_, err = runApp(t, "db", "run", "--db", path, "nope")
	assert.True(t, errors.Is(err, dbpkg.ErrRunNotFound))
}

func TestRunAction_NoRuns(t *testing.T) {
	_, err := runApp(t, "db", "run", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dbpkg.ErrRunNotFound))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestReportAction(t *testing.T) {
	path := seedDB(t, "run-a")

	out, err := runApp(t, "db", "report", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# Run: run-a")
	assert.Contains(t, out, "total_quotes: 1")
	assert.Contains(t, out, "Oscar Wilde: 1")

	out, err = runApp(t, "db", "report", "--db", path, "--format", "json", "run-a")
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, float64(1), report["unique_authors"])

	_, err = runApp(t, "db", "report", "--db", path, "--format", "xml")
	assert.Error(t, err)
}
