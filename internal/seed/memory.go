package seed

import (
	"sync"

	"github.com/mesh-intelligence/almanac/pkg/types"
)

type memoryKey struct {
	hash   types.KeyHash
	locale types.Locale
}

// MemorySource is an in-memory byte source, used when no store is
// attached. Every load returns a fresh copy of the stored bytes.
type MemorySource struct {
	mu      sync.RWMutex
	records map[memoryKey]types.BufferRecord
	known   map[types.KeyHash]types.DataKey
}

// NewMemorySource returns a source serving records.
func NewMemorySource(records []types.BufferRecord) *MemorySource {
	s := &MemorySource{
		records: make(map[memoryKey]types.BufferRecord, len(records)),
		known:   make(map[types.KeyHash]types.DataKey),
	}
	for _, rec := range records {
		s.Put(rec)
	}
	return s
}

// Put stores or replaces rec.
func (s *MemorySource) Put(rec types.BufferRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[memoryKey{rec.Key.Hash(), rec.Locale}] = rec
	s.known[rec.Key.Hash()] = rec.Key
}

// LoadBuffer implements types.BufferProvider.
func (s *MemorySource) LoadBuffer(key types.DataKey, req types.DataRequest) (types.BufferResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k, ok := s.known[key.Hash()]; !ok || !k.Equal(key) {
		return types.BufferResponse{}, types.ErrMissingDataKey.WithRequest(key, req)
	}
	rec, ok := s.records[memoryKey{key.Hash(), req.Locale}]
	if !ok {
		return types.BufferResponse{}, types.ErrMissingLocale.WithRequest(key, req)
	}
	format := rec.Format
	loc := rec.Locale
	return types.BufferResponse{
		Metadata: types.DataResponseMetadata{Locale: &loc, BufferFormat: &format},
		Bytes:    append([]byte{}, rec.Bytes...),
	}, nil
}
