package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/almanac/pkg/calendar"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// weekResult is the output of `almanac week`.
type weekResult struct {
	Locale   string           `json:"locale"`
	Resolved string           `json:"resolved"`
	FirstDay calendar.Weekday `json:"first_weekday"`
	MinDays  uint8            `json:"min_week_days"`
}

func newWeekCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "week <locale>",
		Short: "Show the week rules of a locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWeek(cmd, args[0])
		},
	}
}

func (a *app) runWeek(cmd *cobra.Command, locale string) error {
	loc, err := parseLocale(locale)
	if err != nil {
		return err
	}

	return a.withProvider(func(p types.AnyProvider) error {
		resp, err := types.Request(p, calendar.WeekDataMarker, loc)
		if err != nil {
			return classify(err)
		}
		wd, err := resp.TakePayload()
		if err != nil {
			return classify(err)
		}

		res := weekResult{
			Locale:   loc.String(),
			Resolved: loc.String(),
			FirstDay: wd.Get().FirstWeekday,
			MinDays:  wd.Get().MinWeekDays,
		}
		if resp.Metadata.Locale != nil {
			res.Resolved = resp.Metadata.Locale.String()
		}
		if a.flags.jsonMode {
			return printJSON(cmd, res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "first weekday: %s\nminimal days:  %d\nresolved from: %s\n",
			res.FirstDay, res.MinDays, res.Resolved)
		return nil
	})
}
