package store

const createTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id          TEXT NOT NULL,
    started_at      TEXT NOT NULL,
    finished_at     TEXT NOT NULL,
    endpoints       INTEGER NOT NULL DEFAULT 0,
    failed          INTEGER NOT NULL DEFAULT 0,
    hosts           INTEGER NOT NULL DEFAULT 0,
    nics            INTEGER NOT NULL DEFAULT 0,
    dataset_json    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`
