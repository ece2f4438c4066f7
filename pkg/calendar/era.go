package calendar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/almanac/pkg/types"
)

// ErrEraNotFound is returned when a date predates every era in a table.
var ErrEraNotFound = errors.New("era not found")

// Era table wire layout: year int32 LE, month uint8, day uint8, code [16]byte.
const (
	eraCodeSize   = 16
	eraRecordSize = 4 + 1 + 1 + eraCodeSize
)

// EraStartDate is the first day of an era, compared year, then month, then day.
type EraStartDate struct {
	Year  int32 `json:"year"`
	Month uint8 `json:"month"`
	Day   uint8 `json:"day"`
}

// Compare returns -1, 0 or 1.
func (d EraStartDate) Compare(other EraStartDate) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(int64(d.Year), int64(other.Year))
	case d.Month != other.Month:
		return cmpInt(int64(d.Month), int64(other.Month))
	default:
		return cmpInt(int64(d.Day), int64(other.Day))
	}
}

// String formats the date as yyyy-mm-dd.
func (d EraStartDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseDate parses yyyy-mm-dd. A leading '-' marks a negative year. Every
// field must be all digits and nothing may follow the day.
func ParseDate(s string) (EraStartDate, error) {
	fail := func(why string) (EraStartDate, error) {
		return EraStartDate{}, fmt.Errorf("parsing date %q: %s", s, why)
	}
	body, negative := strings.CutPrefix(s, "-")
	parts := strings.Split(body, "-")
	if len(parts) != 3 {
		return fail("want yyyy-mm-dd")
	}
	for _, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return fail("fields must be digits")
		}
	}
	year, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return fail("year out of range")
	}
	month, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return fail("month out of range")
	}
	day, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return fail("day out of range")
	}
	if negative {
		year = -year
	}
	d := EraStartDate{Year: int32(year), Month: uint8(month), Day: uint8(day)}
	if d.Month < 1 || d.Month > 13 || d.Day < 1 || d.Day > 31 {
		return fail("month or day out of range")
	}
	return d, nil
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// EraCode is a short ASCII era identifier stored inline in 16 bytes.
type EraCode [eraCodeSize]byte

// NewEraCode validates s and packs it into an EraCode.
func NewEraCode(s string) (EraCode, error) {
	var c EraCode
	if s == "" || len(s) > eraCodeSize {
		return c, fmt.Errorf("era code %q must be 1 to %d bytes", s, eraCodeSize)
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] > 0x7f {
			return c, fmt.Errorf("era code %q must be printable ASCII", s)
		}
	}
	copy(c[:], s)
	return c, nil
}

// MustEraCode is NewEraCode for static tables.
func MustEraCode(s string) EraCode {
	c, err := NewEraCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the code without padding.
func (c EraCode) String() string {
	return strings.TrimRight(string(c[:]), "\x00")
}

// MarshalText implements encoding.TextMarshaler.
func (c EraCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *EraCode) UnmarshalText(text []byte) error {
	parsed, err := NewEraCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Era is one entry of an era table.
type Era struct {
	Start EraStartDate `json:"start"`
	Code  EraCode      `json:"code"`
}

// EraTable is a read-only view over encoded era records. A table parsed
// from a buffer reads its records in place.
type EraTable struct {
	data []byte
}

// ParseEraTable validates an encoded era table without copying it.
// Returns ErrInvalidState if the length is not a whole number of records,
// a record is malformed, or start dates are not strictly increasing.
// Duplicate start dates are rejected here, never resolved at query time.
func ParseEraTable(buf []byte) (EraTable, error) {
	if len(buf)%eraRecordSize != 0 {
		return EraTable{}, types.ErrInvalidState.WithContext(
			fmt.Sprintf("era table length %d is not a multiple of %d", len(buf), eraRecordSize))
	}
	t := EraTable{data: buf}
	for i := 0; i < t.Len(); i++ {
		start := t.startAt(i)
		if start.Month < 1 || start.Month > 13 || start.Day < 1 || start.Day > 31 {
			return EraTable{}, types.ErrInvalidState.WithContext(
				fmt.Sprintf("era %d has invalid start date %s", i, start))
		}
		if t.codeAt(i)[0] == 0 {
			return EraTable{}, types.ErrInvalidState.WithContext(fmt.Sprintf("era %d has an empty code", i))
		}
		if i > 0 {
			prev := t.startAt(i - 1)
			if c := prev.Compare(start); c >= 0 {
				what := "decreasing"
				if c == 0 {
					what = "duplicate"
				}
				return EraTable{}, types.ErrInvalidState.WithContext(
					fmt.Sprintf("%s era start date %s at index %d", what, start, i))
			}
		}
	}
	return t, nil
}

// NewEraTable encodes eras and validates the result like ParseEraTable.
func NewEraTable(eras ...Era) (EraTable, error) {
	return ParseEraTable(EncodeEras(eras))
}

// MustEraTable is NewEraTable for static tables.
func MustEraTable(eras ...Era) EraTable {
	t, err := NewEraTable(eras...)
	if err != nil {
		panic(err)
	}
	return t
}

// EncodeEras produces the wire encoding of eras without validating order.
func EncodeEras(eras []Era) []byte {
	out := make([]byte, len(eras)*eraRecordSize)
	for i, e := range eras {
		rec := out[i*eraRecordSize:]
		binary.LittleEndian.PutUint32(rec[0:4], uint32(e.Start.Year))
		rec[4] = e.Start.Month
		rec[5] = e.Start.Day
		copy(rec[6:eraRecordSize], e.Code[:])
	}
	return out
}

// Len returns the number of eras.
func (t EraTable) Len() int { return len(t.data) / eraRecordSize }

// Bytes returns the encoded records.
func (t EraTable) Bytes() []byte { return t.data }

func (t EraTable) startAt(i int) EraStartDate {
	rec := t.data[i*eraRecordSize:]
	return EraStartDate{
		Year:  int32(binary.LittleEndian.Uint32(rec[0:4])),
		Month: rec[4],
		Day:   rec[5],
	}
}

func (t EraTable) codeAt(i int) []byte {
	off := i*eraRecordSize + 6
	return t.data[off : off+eraCodeSize]
}

// At returns era i.
func (t EraTable) At(i int) Era {
	var e Era
	e.Start = t.startAt(i)
	copy(e.Code[:], t.codeAt(i))
	return e
}

// Eras returns all eras in order.
func (t EraTable) Eras() []Era {
	out := make([]Era, t.Len())
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// Since returns the sub-table of eras starting on or after date. The
// result shares the receiver's bytes.
func (t EraTable) Since(date EraStartDate) EraTable {
	i := sort.Search(t.Len(), func(i int) bool { return t.startAt(i).Compare(date) >= 0 })
	return EraTable{data: t.data[i*eraRecordSize:]}
}

// Detach returns a copy that does not share bytes with the receiver.
func (t EraTable) Detach() EraTable {
	return EraTable{data: append([]byte(nil), t.data...)}
}

// ResolveEra returns the code of the era containing date: the era with the
// greatest start date on or before it. Returns ErrEraNotFound when date
// predates the first era.
func ResolveEra(t EraTable, date EraStartDate) (EraCode, error) {
	// Index of the first era starting after date.
	i := sort.Search(t.Len(), func(i int) bool { return t.startAt(i).Compare(date) > 0 })
	if i == 0 {
		return EraCode{}, fmt.Errorf("%w: %s predates the first era", ErrEraNotFound, date)
	}
	var c EraCode
	copy(c[:], t.codeAt(i-1))
	return c, nil
}

// resolveEraLinear is the reference scan ResolveEra must agree with.
func resolveEraLinear(t EraTable, date EraStartDate) (EraCode, error) {
	found := -1
	for i := 0; i < t.Len(); i++ {
		if t.startAt(i).Compare(date) <= 0 {
			found = i
		}
	}
	if found < 0 {
		return EraCode{}, fmt.Errorf("%w: %s predates the first era", ErrEraNotFound, date)
	}
	return t.At(found).Code, nil
}
