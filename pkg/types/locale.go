package types

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Keyword is one -u- extension keyword, e.g. {Key: "ca", Value: "japanese"}.
// A keyword present without a value has an empty Value.
type Keyword struct {
	Key   string
	Value string
}

// Locale is the locale part of a data request: a language identifier plus a
// set of -u- keywords. Locale is comparable and can be used as a map key.
// The zero value is the root locale "und".
type Locale struct {
	langid   string // canonical language identifier, "" for und
	keywords string // canonical "k1-v1-k2-v2", keys sorted
}

// Root is the root locale.
var Root = Locale{}

// NewLocale builds a locale from a language tag and keywords. Extensions
// already present on tag are dropped; later keywords replace earlier ones
// with the same key.
func NewLocale(tag language.Tag, keywords ...Keyword) Locale {
	loc := Locale{langid: languageID(tag)}
	if len(keywords) == 0 {
		return loc
	}
	set := make(map[string]string, len(keywords))
	for _, kw := range keywords {
		set[strings.ToLower(kw.Key)] = strings.ToLower(kw.Value)
	}
	loc.keywords = encodeKeywords(set)
	return loc
}

// ParseLocale parses a BCP-47 locale identifier such as "ja-JP-u-ca-japanese".
// "und" and the empty string both parse to Root.
func ParseLocale(s string) (Locale, error) {
	if s == "" {
		return Root, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Locale{}, fmt.Errorf("parsing locale %q: %w", s, err)
	}
	loc := Locale{langid: languageID(tag)}
	if ext, ok := tag.Extension('u'); ok {
		loc.keywords = encodeKeywords(parseUnicodeExtension(ext.String()))
	}
	return loc, nil
}

// MustParseLocale is ParseLocale for tests and static tables.
func MustParseLocale(s string) Locale {
	loc, err := ParseLocale(s)
	if err != nil {
		panic(err)
	}
	return loc
}

// languageID returns the canonical identifier of tag without extensions,
// or "" for und.
func languageID(tag language.Tag) string {
	base, script, region := tag.Raw()
	parts := []any{base, script, region}
	if variants := tag.Variants(); len(variants) > 0 {
		parts = append(parts, variants)
	}
	stripped, err := language.Compose(parts...)
	if err != nil {
		stripped = tag
	}
	if id := stripped.String(); id != "und" {
		return id
	}
	return ""
}

// parseUnicodeExtension splits "u-ca-japanese-nu-latn" into keywords.
// Attributes preceding the first key are ignored.
func parseUnicodeExtension(ext string) map[string]string {
	tokens := strings.Split(strings.ToLower(ext), "-")
	if len(tokens) > 0 && tokens[0] == "u" {
		tokens = tokens[1:]
	}
	set := make(map[string]string)
	current := ""
	for _, tok := range tokens {
		if len(tok) == 2 {
			current = tok
			set[current] = ""
			continue
		}
		if current == "" {
			continue
		}
		if set[current] == "" {
			set[current] = tok
		} else {
			set[current] += "-" + tok
		}
	}
	return set
}

func encodeKeywords(set map[string]string) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(k)
		if v := set[k]; v != "" {
			b.WriteByte('-')
			b.WriteString(v)
		}
	}
	return b.String()
}

// IsRoot reports whether l has neither a language nor keywords.
func (l Locale) IsRoot() bool { return l.langid == "" && l.keywords == "" }

// IsEmpty is an alias for IsRoot used when validating requests.
func (l Locale) IsEmpty() bool { return l.IsRoot() }

// LanguageID returns the language identifier, "und" for root.
func (l Locale) LanguageID() string {
	if l.langid == "" {
		return "und"
	}
	return l.langid
}

// Tag returns the language identifier as an x/text tag.
func (l Locale) Tag() language.Tag {
	if l.langid == "" {
		return language.Und
	}
	return language.Make(l.langid)
}

// Keywords returns the keywords in key order.
func (l Locale) Keywords() []Keyword {
	set := parseUnicodeExtension(l.keywords)
	out := make([]Keyword, 0, len(set))
	for k, v := range set {
		out = append(out, Keyword{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Keyword returns the value of the keyword with the given key.
func (l Locale) Keyword(key string) (string, bool) {
	if l.keywords == "" {
		return "", false
	}
	v, ok := parseUnicodeExtension(l.keywords)[strings.ToLower(key)]
	return v, ok
}

// HasKeywords reports whether any -u- keyword is set.
func (l Locale) HasKeywords() bool { return l.keywords != "" }

// WithKeyword returns a copy of l with key set to value.
func (l Locale) WithKeyword(key, value string) Locale {
	set := parseUnicodeExtension(l.keywords)
	set[strings.ToLower(key)] = strings.ToLower(value)
	return Locale{langid: l.langid, keywords: encodeKeywords(set)}
}

// WithoutKeyword returns a copy of l without key.
func (l Locale) WithoutKeyword(key string) Locale {
	set := parseUnicodeExtension(l.keywords)
	delete(set, strings.ToLower(key))
	return Locale{langid: l.langid, keywords: encodeKeywords(set)}
}

// WithoutKeywords returns a copy of l with only the language identifier.
func (l Locale) WithoutKeywords() Locale {
	return Locale{langid: l.langid}
}

// WithLanguageID returns a copy of l with the language identifier replaced
// and the keywords kept. tag extensions are ignored.
func (l Locale) WithLanguageID(tag language.Tag) Locale {
	return Locale{langid: languageID(tag), keywords: l.keywords}
}

// String returns the BCP-47 form, e.g. "ja-JP-u-ca-japanese".
func (l Locale) String() string {
	if l.keywords == "" {
		return l.LanguageID()
	}
	return l.LanguageID() + "-u-" + l.keywords
}

// Equal is structural equality; it is the same as ==.
func (l Locale) Equal(other Locale) bool { return l == other }

// Compare orders locales by language identifier, then keywords.
func (l Locale) Compare(other Locale) int {
	if c := strings.Compare(l.langid, other.langid); c != 0 {
		return c
	}
	return strings.Compare(l.keywords, other.keywords)
}

// MarshalText implements encoding.TextMarshaler.
func (l Locale) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Locale) UnmarshalText(text []byte) error {
	parsed, err := ParseLocale(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
