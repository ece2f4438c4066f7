package types

import "errors"

// Config holds byte-source selection and parameters for Backend.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
	// Compression applied to newly stored buffers: "none", "lz4" or "zstd".
	// Empty means "none".
	Compression string `json:"compression,omitempty" yaml:"compression,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrCompressionUnknown = errors.New("unknown compression")
)

// Store lifecycle errors.
var (
	ErrAlreadyAttached = errors.New("store already attached")
	ErrDetached        = errors.New("store is detached")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

var knownCompressions = map[string]bool{
	"":     true,
	"none": true,
	"lz4":  true,
	"zstd": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownCompressions[c.Compression] {
		return ErrCompressionUnknown
	}
	return nil
}
