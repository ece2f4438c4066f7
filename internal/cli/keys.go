package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/almanac/internal/seed"
)

// keyListing is one line of `almanac keys`.
type keyListing struct {
	Key     string   `json:"key"`
	Locales []string `json:"locales"`
}

func newKeysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List stored keys and their locales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runKeys(cmd)
		},
	}
}

func (a *app) runKeys(cmd *cobra.Command) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	paths, err := store.Keys()
	if err != nil {
		return classify(err)
	}

	listing := make([]keyListing, 0, len(paths))
	for _, path := range paths {
		key, ok := seed.Key(path)
		if !ok {
			a.logger.Warn().Str("key", path).Msg("stored key is not registered")
			continue
		}
		locales, err := store.Locales(key)
		if err != nil {
			return classify(err)
		}
		entry := keyListing{Key: path, Locales: make([]string, 0, len(locales))}
		for _, loc := range locales {
			entry.Locales = append(entry.Locales, loc.String())
		}
		listing = append(listing, entry)
	}

	if a.flags.jsonMode {
		return printJSON(cmd, listing)
	}
	out := cmd.OutOrStdout()
	for _, entry := range listing {
		fmt.Fprintf(out, "%s\t%s\n", entry.Key, strings.Join(entry.Locales, " "))
	}
	return nil
}
