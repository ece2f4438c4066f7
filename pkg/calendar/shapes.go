package calendar

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mesh-intelligence/almanac/pkg/types"
)

// Weekday numbers follow ISO 8601: Monday is 1, Sunday is 7.
type Weekday uint8

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// String returns the three-letter lowercase name.
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("weekday(%d)", uint8(d))
	}
	return weekdayNames[d]
}

// ParseWeekday accepts the names written by String.
func ParseWeekday(s string) (Weekday, error) {
	for i := Monday; i <= Sunday; i++ {
		if weekdayNames[i] == strings.ToLower(s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Weekday) MarshalText() ([]byte, error) {
	if d < Monday || d > Sunday {
		return nil, fmt.Errorf("invalid weekday %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeekData holds the week rules of a region.
type WeekData struct {
	FirstWeekday Weekday `json:"first_weekday"`
	// MinWeekDays is the minimum number of days of a week that must fall
	// in a year for the week to count as the year's first week.
	MinWeekDays uint8 `json:"min_week_days"`
}

// Validate rejects rules outside Monday..Sunday and 1..7 days.
func (w WeekData) Validate() error {
	if w.FirstWeekday < Monday || w.FirstWeekday > Sunday {
		return types.ErrInvalidState.WithContext(fmt.Sprintf("first weekday %d out of range", w.FirstWeekday))
	}
	if w.MinWeekDays < 1 || w.MinWeekDays > 7 {
		return types.ErrInvalidState.WithContext(fmt.Sprintf("min week days %d out of range", w.MinWeekDays))
	}
	return nil
}

// Detach returns w; it holds no references.
func (w WeekData) Detach() WeekData { return w }

// DateSymbols are the display names used when formatting dates of one
// calendar in one locale.
type DateSymbols struct {
	Months   []string          `json:"months"`
	Weekdays []string          `json:"weekdays"`
	Eras     map[string]string `json:"eras,omitempty"`
}

// EraName returns the display name of an era code, falling back to the
// code itself.
func (s DateSymbols) EraName(code EraCode) string {
	if name, ok := s.Eras[code.String()]; ok {
		return name
	}
	return code.String()
}

// Detach returns a copy whose slices and map are not shared with s.
func (s DateSymbols) Detach() DateSymbols {
	out := DateSymbols{
		Months:   slices.Clone(s.Months),
		Weekdays: slices.Clone(s.Weekdays),
	}
	if s.Eras != nil {
		out.Eras = maps.Clone(s.Eras)
	}
	return out
}

// DateLengths are the date patterns of one calendar in one locale.
type DateLengths struct {
	Full   string `json:"full"`
	Long   string `json:"long"`
	Medium string `json:"medium"`
	Short  string `json:"short"`
}

// Detach returns l; it holds no references.
func (l DateLengths) Detach() DateLengths { return l }
