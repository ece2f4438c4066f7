package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/almanac/internal/fallback"
	"github.com/mesh-intelligence/almanac/internal/registry"
	"github.com/mesh-intelligence/almanac/internal/seed"
	"github.com/mesh-intelligence/almanac/internal/sqlite"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// openStore attaches the buffer store, seeding it with the built-in data
// on first use. The caller must Detach it.
func (a *app) openStore() (*sqlite.Backend, error) {
	if err := a.config.Validate(); err != nil {
		return nil, userError(fmt.Errorf("invalid configuration in %s: %w", a.configDir, err))
	}
	store := sqlite.NewBackend(
		sqlite.WithLogger(a.logger),
		sqlite.WithSeed(seed.Records),
	)
	if err := store.Attach(a.config); err != nil {
		return nil, sysError(fmt.Errorf("attach store: %w", err))
	}
	return store, nil
}

// provider wires every calendar key to store behind locale fallback.
func (a *app) provider(store types.BufferProvider) (types.AnyProvider, error) {
	reg := registry.New(a.logger)
	if err := seed.Register(reg, store); err != nil {
		return nil, sysError(fmt.Errorf("register keys: %w", err))
	}
	return fallback.New(reg, a.logger), nil
}

// withProvider opens the store, runs fn against a provider over it and
// detaches.
func (a *app) withProvider(fn func(p types.AnyProvider) error) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	p, err := a.provider(store)
	if err != nil {
		return err
	}
	return fn(p)
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// parseLocale parses a locale argument, reporting failures as user errors.
func parseLocale(s string) (types.Locale, error) {
	loc, err := types.ParseLocale(s)
	if err != nil {
		return types.Locale{}, userError(err)
	}
	return loc, nil
}
