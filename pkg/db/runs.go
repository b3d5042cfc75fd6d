package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/dtnitsch/quotes-etl/models"
)

// ErrRunNotFound is returned when no run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

// Run is one row of the run history.
type Run struct {
	RunID        string
	BaseURL      string
	OutputPrefix string
	StartedAt    time.Time
	FinishedAt   time.Time
	Report       models.Report
}

// Persist stores a finished run. It lets the database act as a pipeline sink.
func (db *DB) Persist(ctx context.Context, out models.RunOutput) error {
	return db.InsertRun(ctx, out)
}

// InsertRun writes the run, its pages, quotes, rejections and failures in a
// single transaction.
func (db *DB) InsertRun(ctx context.Context, out models.RunOutput) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() // rollback error less important than the cause
		}
	}()

	r := out.Report
	m := r.ProcessingMetrics
	topAuthors, err := r.TopAuthors.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "failed to encode top authors")
	}
	topTags, err := r.TopTags.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "failed to encode top tags")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, base_url, output_prefix, started_at, finished_at,
		                  pages_scraped, quotes_extracted, quotes_cleaned, errors_encountered,
		                  duplicates_removed, invalid_quotes,
		                  total_quotes, unique_authors, total_tags, unique_tags,
		                  avg_word_count, avg_character_count, top_authors, top_tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, out.RunID, out.BaseURL, out.OutputPrefix, formatTime(out.StartedAt), formatTime(out.FinishedAt),
		m.PagesScraped, m.QuotesExtracted, m.QuotesCleaned, m.ErrorsEncountered,
		m.DuplicatesRemoved, m.InvalidRecords,
		r.TotalQuotes, r.UniqueAuthors, r.TotalTags, r.UniqueTags,
		r.AvgWordCount, r.AvgCharacterCount, string(topAuthors), string(topTags))
	if err != nil {
		return errors.Wrap(err, "failed to insert run")
	}

	for _, p := range out.Pages {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pages (run_id, url, title, site_name, excerpt, quote_count, from_cache, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, out.RunID, p.URL, p.Title, p.SiteName, p.Excerpt, p.QuoteCount, p.FromCache, formatTime(p.FetchedAt))
		if err != nil {
			return errors.Wrapf(err, "failed to insert page %s", p.URL)
		}
	}

	for _, q := range out.Quotes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO quotes (run_id, extraction_order, quote_text, author, tags, author_link, source_url,
			                    word_count, tag_count, character_count, language, processed_timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, out.RunID, q.ExtractionOrder, q.QuoteText, q.Author, strings.Join(q.Tags, ", "), q.AuthorLink, q.SourceURL,
			q.WordCount, q.TagCount, q.CharacterCount, q.Language, q.ProcessedTimestamp)
		if err != nil {
			return errors.Wrapf(err, "failed to insert quote %d", q.ExtractionOrder)
		}
	}

	for _, rej := range out.Rejections {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO rejections (run_id, extraction_order, quote_text, author, source_url, reason)
			VALUES (?, ?, ?, ?, ?, ?)
		`, out.RunID, rej.Quote.ExtractionOrder, rej.Quote.QuoteText, rej.Quote.Author, rej.Quote.SourceURL, string(rej.Reason))
		if err != nil {
			return errors.Wrapf(err, "failed to insert rejection %d", rej.Quote.ExtractionOrder)
		}
	}

	failures := make([]models.PageFailure, 0, len(out.Failures)+len(out.Skips))
	failures = append(failures, out.Failures...)
	for _, s := range out.Skips {
		failures = append(failures, models.PageFailure{URL: s.SourceURL, ErrorType: s.ErrorType, Message: s.Message})
	}
	for _, f := range failures {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO failures (run_id, url, error_type, error_message)
			VALUES (?, ?, ?, ?)
		`, out.RunID, f.URL, f.ErrorType, f.Message)
		if err != nil {
			return errors.Wrap(err, "failed to insert failure")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit run")
	}
	return nil
}

const runColumns = `
	run_id, base_url, output_prefix, started_at, finished_at,
	pages_scraped, quotes_extracted, quotes_cleaned, errors_encountered,
	duplicates_removed, invalid_quotes,
	total_quotes, unique_authors, total_tags, unique_tags,
	avg_word_count, avg_character_count, top_authors, top_tags`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var prefix, topAuthors, topTags sql.NullString
	var startedAt, finishedAt string
	m := &run.Report.ProcessingMetrics

	if err := row.Scan(
		&run.RunID, &run.BaseURL, &prefix, &startedAt, &finishedAt,
		&m.PagesScraped, &m.QuotesExtracted, &m.QuotesCleaned, &m.ErrorsEncountered,
		&m.DuplicatesRemoved, &m.InvalidRecords,
		&run.Report.TotalQuotes, &run.Report.UniqueAuthors, &run.Report.TotalTags, &run.Report.UniqueTags,
		&run.Report.AvgWordCount, &run.Report.AvgCharacterCount, &topAuthors, &topTags,
	); err != nil {
		return nil, err
	}

	run.OutputPrefix = prefix.String
	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseTime(finishedAt)
	if topAuthors.Valid {
		if err := run.Report.TopAuthors.UnmarshalJSON([]byte(topAuthors.String)); err != nil {
			return nil, errors.Wrap(err, "failed to decode top authors")
		}
	}
	if topTags.Valid {
		if err := run.Report.TopTags.UnmarshalJSON([]byte(topTags.String)); err != nil {
			return nil, errors.Wrap(err, "failed to decode top tags")
		}
	}
	return &run, nil
}

// GetRun retrieves a run by id
func (db *DB) GetRun(runID string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrRunNotFound, "run %s", runID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get run")
	}
	return run, nil
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		runs = append(runs, *run)
	}
	return runs, errors.Wrap(rows.Err(), "failed to iterate runs")
}

// LatestRunID returns the most recent run id.
func (db *DB) LatestRunID() (string, error) {
	var runID string
	err := db.QueryRow(`SELECT run_id FROM runs ORDER BY started_at DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.WithHint(ErrRunNotFound, "no runs recorded yet; run `quotes-etl run --formats db` first")
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to get latest run")
	}
	return runID, nil
}

// GetRunQuotes retrieves the valid quotes of a run in extraction order
func (db *DB) GetRunQuotes(runID string) ([]models.Quote, error) {
	rows, err := db.Query(`
		SELECT extraction_order, quote_text, author, tags, author_link, source_url,
		       word_count, tag_count, character_count, language, processed_timestamp
		FROM quotes
		WHERE run_id = ?
		ORDER BY extraction_order
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get run quotes")
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		var q models.Quote
		var tags, link, language sql.NullString
		if err := rows.Scan(&q.ExtractionOrder, &q.QuoteText, &q.Author, &tags, &link, &q.SourceURL,
			&q.WordCount, &q.TagCount, &q.CharacterCount, &language, &q.ProcessedTimestamp); err != nil {
			return nil, errors.Wrap(err, "failed to scan quote")
		}
		q.Tags = splitTags(tags.String)
		q.AuthorLink = link.String
		q.Language = language.String
		quotes = append(quotes, q)
	}
	return quotes, errors.Wrap(rows.Err(), "failed to iterate quotes")
}

// GetRunPages retrieves the pages fetched during a run
func (db *DB) GetRunPages(runID string) ([]models.PageMeta, error) {
	rows, err := db.Query(`
		SELECT url, title, site_name, excerpt, quote_count, from_cache, fetched_at
		FROM pages
		WHERE run_id = ?
		ORDER BY page_id
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get run pages")
	}
	defer rows.Close()

	var pages []models.PageMeta
	for rows.Next() {
		var p models.PageMeta
		var title, site, excerpt, fetchedAt sql.NullString
		if err := rows.Scan(&p.URL, &title, &site, &excerpt, &p.QuoteCount, &p.FromCache, &fetchedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan page")
		}
		p.Title, p.SiteName, p.Excerpt = title.String, site.String, excerpt.String
		p.FetchedAt = parseTime(fetchedAt.String)
		pages = append(pages, p)
	}
	return pages, errors.Wrap(rows.Err(), "failed to iterate pages")
}

// GetRunRejections retrieves the quotes that failed validation in a run
func (db *DB) GetRunRejections(runID string) ([]models.Rejection, error) {
	rows, err := db.Query(`
		SELECT extraction_order, quote_text, author, source_url, reason
		FROM rejections
		WHERE run_id = ?
		ORDER BY rejection_id
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get run rejections")
	}
	defer rows.Close()

	var rejections []models.Rejection
	for rows.Next() {
		var r models.Rejection
		var text, author, source sql.NullString
		var reason string
		if err := rows.Scan(&r.Quote.ExtractionOrder, &text, &author, &source, &reason); err != nil {
			return nil, errors.Wrap(err, "failed to scan rejection")
		}
		r.Quote.QuoteText, r.Quote.Author, r.Quote.SourceURL = text.String, author.String, source.String
		r.Reason = models.Reason(reason)
		rejections = append(rejections, r)
	}
	return rejections, errors.Wrap(rows.Err(), "failed to iterate rejections")
}

// GetRunFailures retrieves skipped pages, blocks and records of a run
func (db *DB) GetRunFailures(runID string) ([]models.PageFailure, error) {
	rows, err := db.Query(`
		SELECT url, error_type, error_message
		FROM failures
		WHERE run_id = ?
		ORDER BY failure_id
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get run failures")
	}
	defer rows.Close()

	var failures []models.PageFailure
	for rows.Next() {
		var f models.PageFailure
		var url, msg sql.NullString
		if err := rows.Scan(&url, &f.ErrorType, &msg); err != nil {
			return nil, errors.Wrap(err, "failed to scan failure")
		}
		f.URL, f.Message = url.String, msg.String
		failures = append(failures, f)
	}
	return failures, errors.Wrap(rows.Err(), "failed to iterate failures")
}

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ", ")
}
