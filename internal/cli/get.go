package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/almanac/internal/seed"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key-path> [locale]",
		Short: "Load the data stored for a key",
		Long: `Get loads the data for a key through locale fallback and prints it as
JSON. Singleton keys take no locale.

Example:
  almanac get datetime/symbols/japanese@1 ja-JP
  almanac get calendar/japanext@1`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGet(cmd, args)
		},
	}
}

func (a *app) runGet(cmd *cobra.Command, args []string) error {
	key, ok := seed.Key(args[0])
	if !ok {
		return userError(types.ErrMissingDataKey.WithContext(args[0]))
	}
	loc := types.Root
	if len(args) == 2 {
		var err error
		if loc, err = parseLocale(args[1]); err != nil {
			return err
		}
	}

	return a.withProvider(func(p types.AnyProvider) error {
		resp, err := p.LoadAny(key, types.NewRequest(loc))
		if err != nil {
			return classify(err)
		}
		value, err := seed.View(key, resp)
		if err != nil {
			return classify(err)
		}

		resolved := loc
		if resp.Metadata.Locale != nil {
			resolved = *resp.Metadata.Locale
		}
		if a.flags.jsonMode {
			return printJSON(cmd, map[string]any{
				"key":    key.Path(),
				"locale": resolved.String(),
				"data":   value,
			})
		}
		if !resolved.Equal(loc) {
			fmt.Fprintf(cmd.OutOrStdout(), "# resolved from %s\n", resolved)
		}
		return printJSON(cmd, value)
	})
}
