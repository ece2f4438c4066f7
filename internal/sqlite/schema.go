package sqlite

// Schema DDL. The database is rebuilt from buffers.jsonl on every attach,
// so there are no migrations.
const (
	createBuffers = `CREATE TABLE buffers (
    buffer_id TEXT PRIMARY KEY,
    key_hash TEXT NOT NULL,
    key_path TEXT NOT NULL,
    locale TEXT NOT NULL,
    format TEXT NOT NULL,
    compression TEXT NOT NULL,
    raw_size INTEGER NOT NULL,
    data BLOB NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (key_hash, locale)
);`

	idxBuffersPath = `CREATE INDEX idx_buffers_path ON buffers(key_path);`
)

var schemaDDL = []string{
	createBuffers,
	idxBuffersPath,
}
