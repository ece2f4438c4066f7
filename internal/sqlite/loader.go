package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
)

const insertBufferSQL = `INSERT INTO buffers
    (buffer_id, key_hash, key_path, locale, format, compression, raw_size, data, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// loadJSONL reads buffers.jsonl from dataDir into the buffers table and
// returns the number of rows loaded. Loading is transactional: all rows
// load or the table stays empty. Lines that do not decode, and rows that
// violate the schema, are skipped with a warning. Unknown fields are
// ignored.
func loadJSONL(db *sql.DB, dataDir string, logger zerolog.Logger) (int, error) {
	path := filepath.Join(dataDir, buffersJSONL)
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertBufferSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	loaded := 0
	for i, raw := range records {
		var rec bufferRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn().Err(err).Int("record", i).Msg("skipping undecodable buffer record")
			continue
		}
		if rec.BufferID == "" || rec.KeyHash == "" || rec.KeyPath == "" {
			logger.Warn().Int("record", i).Msg("skipping incomplete buffer record")
			continue
		}
		if rec.Data == nil {
			rec.Data = []byte{}
		}
		if _, err := stmt.Exec(rec.BufferID, rec.KeyHash, rec.KeyPath, rec.Locale, rec.Format,
			rec.Compression, rec.RawSize, rec.Data, rec.CreatedAt); err != nil {
			logger.Warn().Err(err).Str("key", rec.KeyPath).Str("locale", rec.Locale).Msg("skipping conflicting buffer record")
			continue
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}

// persistJSONL rewrites buffers.jsonl from the buffers table.
func persistJSONL(db *sql.DB, dataDir string) error {
	rows, err := db.Query(`SELECT buffer_id, key_hash, key_path, locale, format, compression, raw_size, data, created_at
        FROM buffers ORDER BY key_path, locale`)
	if err != nil {
		return fmt.Errorf("querying buffers: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec bufferRecord
		if err := rows.Scan(&rec.BufferID, &rec.KeyHash, &rec.KeyPath, &rec.Locale, &rec.Format,
			&rec.Compression, &rec.RawSize, &rec.Data, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning buffer row: %w", err)
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding buffer record: %w", err)
		}
		records = append(records, raw)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating buffers: %w", err)
	}
	return writeJSONL(filepath.Join(dataDir, buffersJSONL), records)
}
