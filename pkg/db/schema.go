package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per pipeline run, with the report flattened into columns
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    base_url TEXT NOT NULL,
    output_prefix TEXT,
    started_at TEXT NOT NULL,        -- RFC 3339, UTC
    finished_at TEXT NOT NULL,

    pages_scraped INTEGER DEFAULT 0,
    quotes_extracted INTEGER DEFAULT 0,
    quotes_cleaned INTEGER DEFAULT 0,
    errors_encountered INTEGER DEFAULT 0,
    duplicates_removed INTEGER DEFAULT 0,
    invalid_quotes INTEGER DEFAULT 0,

    total_quotes INTEGER DEFAULT 0,
    unique_authors INTEGER DEFAULT 0,
    total_tags INTEGER DEFAULT 0,
    unique_tags INTEGER DEFAULT 0,
    avg_word_count REAL DEFAULT 0,
    avg_character_count REAL DEFAULT 0,

    -- Rankings as ordered JSON objects: {"name": count, ...}
    top_authors TEXT,
    top_tags TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Pages fetched during a run
CREATE TABLE IF NOT EXISTS pages (
    page_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    url TEXT NOT NULL,
    title TEXT,
    site_name TEXT,
    excerpt TEXT,
    quote_count INTEGER DEFAULT 0,
    from_cache BOOLEAN DEFAULT 0,
    fetched_at TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);

-- Valid quotes, in extraction order
CREATE TABLE IF NOT EXISTS quotes (
    quote_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    extraction_order INTEGER NOT NULL,
    quote_text TEXT NOT NULL,
    author TEXT NOT NULL,
    tags TEXT,                       -- ", " joined, sorted
    author_link TEXT,
    source_url TEXT NOT NULL,
    word_count INTEGER NOT NULL,
    tag_count INTEGER NOT NULL,
    character_count INTEGER NOT NULL,
    language TEXT,
    processed_timestamp REAL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_quotes_run ON quotes(run_id, extraction_order);
CREATE INDEX IF NOT EXISTS idx_quotes_author ON quotes(author);

-- Quotes that failed validation
CREATE TABLE IF NOT EXISTS rejections (
    rejection_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    extraction_order INTEGER NOT NULL,
    quote_text TEXT,
    author TEXT,
    source_url TEXT,
    reason TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Pages, quote blocks and records that had to be skipped
CREATE TABLE IF NOT EXISTS failures (
    failure_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    url TEXT,
    error_type TEXT NOT NULL,        -- fetch_error, parse_error, element_error, transform_error
    error_message TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`
