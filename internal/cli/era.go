package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/almanac/pkg/calendar"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// eraResult is the output of `almanac era`.
type eraResult struct {
	Calendar string `json:"calendar"`
	Date     string `json:"date"`
	Code     string `json:"code"`
	Name     string `json:"name"`
}

func newEraCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "era <locale> <yyyy-mm-dd>",
		Short: "Find the era a date falls in",
		Long: `Era resolves an ISO date against the era table of the calendar selected
by the locale's -u-ca- keyword, and names the era in that locale.

Example:
  almanac era ja-JP-u-ca-japanese 2019-05-01
  almanac era en-u-ca-japanext 1700-01-01`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEra(cmd, args[0], args[1])
		},
	}
}

func (a *app) runEra(cmd *cobra.Command, locale, date string) error {
	loc, err := parseLocale(locale)
	if err != nil {
		return err
	}
	d, err := calendar.ParseDate(date)
	if err != nil {
		return userError(err)
	}
	kind := calendar.KindFromLocale(loc)
	if !kind.HasEraTable() {
		return userError(fmt.Errorf("calendar %s has no era table; select one with -u-ca-japanese or -u-ca-japanext", kind))
	}

	return a.withProvider(func(p types.AnyProvider) error {
		code, err := calendar.EraForDate(p, kind, d)
		if err != nil {
			return classify(err)
		}
		syms, err := calendar.LoadSymbols(p, kind, loc)
		if err != nil {
			return classify(err)
		}

		res := eraResult{
			Calendar: kind.String(),
			Date:     d.String(),
			Code:     code.String(),
			Name:     syms.Get().EraName(code),
		}
		if a.flags.jsonMode {
			return printJSON(cmd, res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", res.Name, res.Code)
		return nil
	})
}
