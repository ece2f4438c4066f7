package types

// BufferRecord is one stored buffer: the bytes of key for locale, encoded
// in format.
type BufferRecord struct {
	Key    DataKey
	Locale Locale
	Format BufferFormat
	Bytes  []byte
}

// BufferStore is a persistent byte source. Attach opens the store described
// by a Config; every other method returns an error wrapping ErrDetached
// until then.
type BufferStore interface {
	BufferProvider

	Attach(config Config) error
	Detach() error

	// Put stores or replaces the buffer for the record's key and locale.
	Put(rec BufferRecord) error
	// PutAll stores every record atomically: either all are stored or none.
	PutAll(records []BufferRecord) error
	// Keys returns the distinct key paths in the store, sorted.
	Keys() ([]string, error)
	// Locales returns the locales stored for key, sorted.
	Locales(key DataKey) ([]Locale, error)
}
