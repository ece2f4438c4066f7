package types

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

// Markers surrounding a key path in its tagged form. The tags make key
// literals easy to find in compiled binaries and let construction reject
// strings that were never meant to be keys.
const (
	KeyPrefixTag = "\nalmanac_key_tag"
	KeySuffixTag = "\n"
)

// FallbackPriority says which part of a locale is most significant when an
// exact match is missing.
type FallbackPriority uint8

const (
	FallbackLanguage FallbackPriority = iota
	FallbackRegion
	FallbackCollation
)

// String returns the lowercase name of the priority.
func (p FallbackPriority) String() string {
	switch p {
	case FallbackLanguage:
		return "language"
	case FallbackRegion:
		return "region"
	case FallbackCollation:
		return "collation"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

// FallbackSupplement names extra fallback data a key needs.
type FallbackSupplement uint8

const (
	SupplementNone FallbackSupplement = iota
	SupplementCollation
)

// KeyMetadata describes how requests for a key are resolved.
type KeyMetadata struct {
	Fallback FallbackPriority
	// ExtensionKey is the -u- keyword that selects a variant of the data,
	// for example "ca" for calendar-specific symbols. Empty when the data
	// does not depend on any keyword.
	ExtensionKey string
	Supplement   FallbackSupplement
	// Singleton keys carry locale-independent data.
	Singleton bool
}

// KeyHash is the stable 4-byte fingerprint of a key path.
type KeyHash [4]byte

// Uint32 returns the hash as a big-endian integer, suitable for indexed
// storage columns.
func (h KeyHash) Uint32() uint32 {
	return binary.BigEndian.Uint32(h[:])
}

// String returns the hash as lowercase hex.
func (h KeyHash) String() string {
	return hex.EncodeToString(h[:])
}

// KeyHashFromUint32 is the inverse of KeyHash.Uint32.
func KeyHashFromUint32(v uint32) KeyHash {
	var h KeyHash
	binary.BigEndian.PutUint32(h[:], v)
	return h
}

// HashPath computes the fingerprint of an untagged key path: the first four
// bytes of its BLAKE3 digest. No seed or address is involved, so the value
// is identical across processes.
func HashPath(path string) KeyHash {
	sum := blake3.Sum256([]byte(path))
	var h KeyHash
	copy(h[:], sum[:4])
	return h
}

// DataKey identifies one shape of locale data. Two keys are equal iff their
// paths are equal.
type DataKey struct {
	path     string
	hash     KeyHash
	metadata KeyMetadata
}

// TaggedPath wraps path in the key tags.
func TaggedPath(path string) string {
	return KeyPrefixTag + path + KeySuffixTag
}

// NewDataKey validates a tagged key path and builds a key from it.
// Returns ErrMalformedPath if the tags are missing or the path does not
// follow the segment/segment@version grammar.
func NewDataKey(tagged string, metadata KeyMetadata) (DataKey, error) {
	if !strings.HasPrefix(tagged, KeyPrefixTag) || !strings.HasSuffix(tagged, KeySuffixTag) ||
		len(tagged) < len(KeyPrefixTag)+len(KeySuffixTag) {
		return DataKey{}, ErrMalformedPath.WithContext(fmt.Sprintf("missing key tags in %q", tagged))
	}
	path := tagged[len(KeyPrefixTag) : len(tagged)-len(KeySuffixTag)]
	if err := validatePath(path); err != nil {
		return DataKey{}, err
	}
	return DataKey{path: path, hash: HashPath(path), metadata: metadata}, nil
}

// MustDataKey is NewDataKey for package-level declarations; it panics on a
// malformed path.
func MustDataKey(tagged string, metadata KeyMetadata) DataKey {
	key, err := NewDataKey(tagged, metadata)
	if err != nil {
		panic(err)
	}
	return key
}

// validatePath checks segment("/"segment)*"@"version where segments are
// [a-z0-9_]+ and the version is a positive integer without leading zeros.
func validatePath(path string) error {
	malformed := func(why string) error {
		return ErrMalformedPath.WithContext(fmt.Sprintf("%s in %q", why, path))
	}
	at := strings.LastIndexByte(path, '@')
	if at < 0 {
		return malformed("missing version")
	}
	name, version := path[:at], path[at+1:]
	if version == "" || version[0] == '0' {
		return malformed("invalid version")
	}
	for i := 0; i < len(version); i++ {
		if version[i] < '0' || version[i] > '9' {
			return malformed("invalid version")
		}
	}
	if name == "" {
		return malformed("empty name")
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == "" {
			return malformed("empty segment")
		}
		for i := 0; i < len(segment); i++ {
			c := segment[i]
			if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_') {
				return malformed(fmt.Sprintf("invalid character %q", c))
			}
		}
	}
	return nil
}

// Path returns the untagged path, e.g. "calendar/japanese@1".
func (k DataKey) Path() string { return k.path }

// Hash returns the cached fingerprint of the path.
func (k DataKey) Hash() KeyHash { return k.hash }

// Metadata returns the fallback metadata.
func (k DataKey) Metadata() KeyMetadata { return k.metadata }

// IsZero reports whether k is the zero key.
func (k DataKey) IsZero() bool { return k.path == "" }

// Equal compares paths only; the hash and metadata derive from them.
func (k DataKey) Equal(other DataKey) bool { return k.path == other.path }

// Compare orders keys by path.
func (k DataKey) Compare(other DataKey) int { return strings.Compare(k.path, other.path) }

// String returns the path.
func (k DataKey) String() string { return k.path }
