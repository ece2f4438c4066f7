// Package fallback retries loads against parent locales when the requested
// locale has no data, so a request for "de-CH" can be served by "de".
package fallback

import (
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/almanac/pkg/types"
)

// Provider wraps an AnyProvider with locale fallback.
type Provider struct {
	inner  types.AnyProvider
	logger zerolog.Logger
}

// New wraps inner.
func New(inner types.AnyProvider, logger zerolog.Logger) *Provider {
	return &Provider{inner: inner, logger: logger.With().Str("component", "fallback").Logger()}
}

// LoadAny implements types.AnyProvider. Singleton keys and empty locales
// are passed through. Otherwise each locale of Chain is tried until one is
// not ErrMissingLocale; the response reports the locale that served it.
func (p *Provider) LoadAny(key types.DataKey, req types.DataRequest) (types.AnyResponse, error) {
	if key.Metadata().Singleton || req.Locale.IsEmpty() {
		return p.inner.LoadAny(key, req)
	}

	for _, loc := range Chain(key.Metadata(), req.Locale) {
		step := types.DataRequest{Locale: loc}
		step.Metadata.AllowRoot = loc.IsRoot()

		resp, err := p.inner.LoadAny(key, step)
		if errors.Is(err, types.ErrMissingLocale) {
			continue
		}
		if err != nil {
			return types.AnyResponse{}, err
		}
		if resp.Metadata.Locale == nil {
			resolved := loc
			resp.Metadata.Locale = &resolved
		}
		if !loc.Equal(req.Locale) {
			p.logger.Debug().
				Str("key", key.Path()).
				Str("requested", req.Locale.String()).
				Str("resolved", loc.String()).
				Msg("served by fallback locale")
		}
		return resp, nil
	}

	if req.Metadata.SilentFail {
		return types.AnyResponse{}, nil
	}
	return types.AnyResponse{}, types.ErrMissingLocale.WithRequest(key, req)
}

// Chain returns the locales tried for loc, most specific first and ending
// at root. Keywords other than the key's extension key are dropped after
// the first step.
//
// Language and collation priority walk the language identifier: drop
// variants, then region, then script. At each identifier the extension
// keyword is tried before the bare identifier. Region priority keeps only
// the region, "de-CH" becoming "und-CH". A locale without a region uses
// its likely region, so "fr" tries "und-FR".
func Chain(md types.KeyMetadata, loc types.Locale) []types.Locale {
	var chain []types.Locale
	seen := make(map[types.Locale]bool)
	add := func(l types.Locale) {
		if !seen[l] {
			seen[l] = true
			chain = append(chain, l)
		}
	}

	add(loc)

	var ext []types.Keyword
	if md.ExtensionKey != "" {
		if v, ok := loc.Keyword(md.ExtensionKey); ok {
			ext = []types.Keyword{{Key: md.ExtensionKey, Value: v}}
		}
	}

	for _, tag := range parents(md.Fallback, loc.Tag()) {
		if ext != nil {
			add(types.NewLocale(tag, ext...))
		}
		add(types.NewLocale(tag))
	}
	return chain
}

// parents lists the language identifiers to try, ending with und.
func parents(priority types.FallbackPriority, tag language.Tag) []language.Tag {
	base, script, region := tag.Raw()
	var tags []language.Tag
	compose := func(parts ...any) {
		if t, err := language.Compose(parts...); err == nil {
			tags = append(tags, t)
		}
	}

	switch priority {
	case types.FallbackRegion:
		compose(tag)
		if region.String() == "ZZ" && base.String() != "und" {
			// "de" has no region of its own; try its likely one, "und-DE".
			if r, conf := tag.Region(); conf != language.No {
				region = r
			}
		}
		if region.String() != "ZZ" {
			compose(language.Und, region)
		}
	default:
		compose(tag)
		compose(base, script, region)
		compose(base, script)
		compose(base)
	}
	tags = append(tags, language.Und)
	return tags
}
