package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/almanac/internal/codec"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// querier is the subset of *sql.DB and *sql.Tx used by writes.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

const upsertBufferSQL = insertBufferSQL + `
    ON CONFLICT (key_hash, locale) DO UPDATE SET
        key_path = excluded.key_path,
        format = excluded.format,
        compression = excluded.compression,
        raw_size = excluded.raw_size,
        data = excluded.data,
        created_at = excluded.created_at`

// Put stores rec, replacing any buffer already stored for the same key and
// locale, and persists buffers.jsonl. Singleton keys only accept the root
// locale. A different key path with the same hash is rejected with
// ErrHashCollision.
func (b *Backend) Put(rec types.BufferRecord) error {
	return b.PutAll([]types.BufferRecord{rec})
}

// PutAll stores every record in one transaction and persists buffers.jsonl
// once. If any record is rejected nothing is stored.
func (b *Backend) PutAll(records []types.BufferRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrIo.Wrap(types.ErrDetached)
	}
	return b.putAllLocked(records)
}

// putAllLocked is PutAll for callers holding b.mu.
func (b *Backend) putAllLocked(records []types.BufferRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := b.db.Begin()
	if err != nil {
		return types.IoError(err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		if err := b.putTx(tx, rec); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return types.IoError(err)
	}
	if err := persistJSONL(b.db, b.dataDir); err != nil {
		return types.IoError(err)
	}
	return nil
}

func (b *Backend) putTx(q querier, rec types.BufferRecord) error {
	if rec.Key.IsZero() {
		return types.ErrInvalidState.WithContext("buffer record without a key")
	}
	if rec.Key.Metadata().Singleton && !rec.Locale.IsRoot() {
		return types.ErrExtraneousLocale.WithKey(rec.Key).WithContext(rec.Locale.String())
	}
	switch rec.Format {
	case types.BufferFormatJSON, types.BufferFormatCBOR, types.BufferFormatBlob:
	default:
		return types.ErrUnavailableBufferFormat.WithKey(rec.Key).WithContext(rec.Format.String())
	}

	hash := rec.Key.Hash().String()
	var existing string
	err := q.QueryRow(`SELECT key_path FROM buffers WHERE key_hash = ? LIMIT 1`, hash).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return types.IoError(err).WithKey(rec.Key)
	case existing != rec.Key.Path():
		return types.ErrHashCollision.WithKey(rec.Key).WithContext(
			fmt.Sprintf("hash %s already stores %s", hash, existing))
	}

	data, used, err := codec.Compress(rec.Bytes, b.compression)
	if err != nil {
		return types.ErrInvalidState.Wrap(err).WithKey(rec.Key)
	}
	if data == nil {
		data = []byte{}
	}

	_, err = q.Exec(upsertBufferSQL,
		generateUUID(), hash, rec.Key.Path(), rec.Locale.String(), rec.Format.String(),
		string(used), len(rec.Bytes), data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return types.IoError(err).WithKey(rec.Key)
	}

	b.logger.Debug().
		Str("key", rec.Key.Path()).
		Str("locale", rec.Locale.String()).
		Str("format", rec.Format.String()).
		Str("compression", string(used)).
		Int("raw_size", len(rec.Bytes)).
		Int("stored_size", len(data)).
		Msg("stored buffer")
	return nil
}

// LoadBuffer implements types.BufferProvider. The returned bytes are a
// fresh copy owned by the caller.
func (b *Backend) LoadBuffer(key types.DataKey, req types.DataRequest) (types.BufferResponse, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.BufferResponse{}, types.ErrIo.Wrap(types.ErrDetached).WithRequest(key, req)
	}

	var (
		path, format, compression string
		rawSize                   int
		data                      []byte
	)
	err := b.db.QueryRow(
		`SELECT key_path, format, compression, raw_size, data FROM buffers WHERE key_hash = ? AND locale = ?`,
		key.Hash().String(), req.Locale.String(),
	).Scan(&path, &format, &compression, &rawSize, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return types.BufferResponse{}, b.missing(key, req)
	}
	if err != nil {
		return types.BufferResponse{}, types.IoError(err).WithRequest(key, req)
	}
	if path != key.Path() {
		return types.BufferResponse{}, types.ErrMissingDataKey.WithRequest(key, req).
			WithContext("hash is used by " + path)
	}

	f, err := types.ParseBufferFormat(format)
	if err != nil {
		return types.BufferResponse{}, types.ErrUnavailableBufferFormat.WithRequest(key, req).WithContext(format)
	}
	c, err := codec.ParseCompression(compression)
	if err != nil {
		return types.BufferResponse{}, types.ErrInvalidState.Wrap(err).WithRequest(key, req)
	}
	raw, err := codec.Decompress(data, c, rawSize)
	if err != nil {
		return types.BufferResponse{}, types.ErrInvalidState.Wrap(err).WithRequest(key, req)
	}
	if raw == nil {
		raw = []byte{}
	}

	loc := req.Locale
	return types.BufferResponse{
		Metadata: types.DataResponseMetadata{Locale: &loc, BufferFormat: &f},
		Bytes:    raw,
	}, nil
}

// missing tells an unknown key apart from a known key without the locale.
func (b *Backend) missing(key types.DataKey, req types.DataRequest) error {
	var n int
	err := b.db.QueryRow(`SELECT COUNT(*) FROM buffers WHERE key_hash = ? AND key_path = ?`,
		key.Hash().String(), key.Path()).Scan(&n)
	if err != nil {
		return types.IoError(err).WithRequest(key, req)
	}
	if n == 0 {
		return types.ErrMissingDataKey.WithRequest(key, req)
	}
	return types.ErrMissingLocale.WithRequest(key, req)
}

// Keys returns the distinct key paths in the store, sorted.
func (b *Backend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	rows, err := b.db.Query(`SELECT DISTINCT key_path FROM buffers ORDER BY key_path`)
	if err != nil {
		return nil, types.IoError(err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, types.IoError(err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, types.IoError(err)
	}
	return paths, nil
}

// Locales returns the locales stored for key, sorted by their string form.
func (b *Backend) Locales(key types.DataKey) ([]types.Locale, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	rows, err := b.db.Query(`SELECT locale FROM buffers WHERE key_hash = ? AND key_path = ? ORDER BY locale`,
		key.Hash().String(), key.Path())
	if err != nil {
		return nil, types.IoError(err).WithKey(key)
	}
	defer rows.Close()

	var locales []types.Locale
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, types.IoError(err).WithKey(key)
		}
		loc, err := types.ParseLocale(s)
		if err != nil {
			b.logger.Warn().Err(err).Str("key", key.Path()).Str("locale", s).Msg("skipping unparseable locale")
			continue
		}
		locales = append(locales, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, types.IoError(err).WithKey(key)
	}
	return locales, nil
}
