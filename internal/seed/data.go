package seed

import (
	"github.com/mesh-intelligence/almanac/pkg/calendar"
)

func era(y int32, m, d uint8, code string) calendar.Era {
	return calendar.Era{
		Start: calendar.EraStartDate{Year: y, Month: m, Day: d},
		Code:  calendar.MustEraCode(code),
	}
}

// japaneseEras is the extended table. Only a few pre-Meiji eras are
// carried; Meiji onward is complete.
var japaneseEras = []calendar.Era{
	era(645, 7, 17, "taika"),
	era(701, 5, 3, "taiho"),
	era(1596, 12, 16, "keicho"),
	era(1688, 10, 23, "genroku"),
	era(1865, 5, 1, "keio"),
	era(1868, 10, 23, "meiji"),
	era(1912, 7, 30, "taisho"),
	era(1926, 12, 25, "showa"),
	era(1989, 1, 8, "heisei"),
	era(2019, 5, 1, "reiwa"),
}

// weekData is keyed by "und" or "und-RR".
var weekData = map[string]calendar.WeekData{
	"und":    {FirstWeekday: calendar.Monday, MinWeekDays: 1},
	"und-US": {FirstWeekday: calendar.Sunday, MinWeekDays: 1},
	"und-CA": {FirstWeekday: calendar.Sunday, MinWeekDays: 1},
	"und-JP": {FirstWeekday: calendar.Sunday, MinWeekDays: 1},
	"und-IN": {FirstWeekday: calendar.Sunday, MinWeekDays: 1},
	"und-BR": {FirstWeekday: calendar.Sunday, MinWeekDays: 1},
	"und-TH": {FirstWeekday: calendar.Sunday, MinWeekDays: 1},
	"und-GB": {FirstWeekday: calendar.Monday, MinWeekDays: 4},
	"und-DE": {FirstWeekday: calendar.Monday, MinWeekDays: 4},
	"und-FR": {FirstWeekday: calendar.Monday, MinWeekDays: 4},
	"und-SE": {FirstWeekday: calendar.Monday, MinWeekDays: 4},
	"und-EG": {FirstWeekday: calendar.Saturday, MinWeekDays: 1},
	"und-IR": {FirstWeekday: calendar.Saturday, MinWeekDays: 1},
}

var (
	gregorianMonthsEn = []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	numericMonths = []string{"M01", "M02", "M03", "M04", "M05", "M06",
		"M07", "M08", "M09", "M10", "M11", "M12"}
	weekdaysEn   = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	weekdaysJa   = []string{"月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日", "日曜日"}
	weekdaysRoot = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	monthsJa     = []string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"}

	japaneseEraNamesEn = map[string]string{
		"meiji": "Meiji", "taisho": "Taishō", "showa": "Shōwa", "heisei": "Heisei", "reiwa": "Reiwa",
	}
	japaneseEraNamesJa = map[string]string{
		"meiji": "明治", "taisho": "大正", "showa": "昭和", "heisei": "平成", "reiwa": "令和",
	}
)

// symbols is keyed by calendar identifier, then locale.
func symbols() map[string]map[string]calendar.DateSymbols {
	out := make(map[string]map[string]calendar.DateSymbols)
	for _, kind := range calendar.AllKinds() {
		id := kind.String()
		out[id] = map[string]calendar.DateSymbols{
			"und": {Months: numericMonths, Weekdays: weekdaysRoot},
		}
	}

	out["gregory"]["en"] = calendar.DateSymbols{
		Months: gregorianMonthsEn, Weekdays: weekdaysEn,
		Eras: map[string]string{"bce": "BC", "ce": "AD"},
	}
	out["gregory"]["ja"] = calendar.DateSymbols{
		Months: monthsJa, Weekdays: weekdaysJa,
		Eras: map[string]string{"bce": "紀元前", "ce": "西暦"},
	}
	for _, id := range []string{"japanese", "japanext"} {
		out[id]["en"] = calendar.DateSymbols{Months: gregorianMonthsEn, Weekdays: weekdaysEn, Eras: japaneseEraNamesEn}
		out[id]["ja"] = calendar.DateSymbols{Months: monthsJa, Weekdays: weekdaysJa, Eras: japaneseEraNamesJa}
	}
	out["buddhist"]["th"] = calendar.DateSymbols{
		Months: []string{"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
			"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม"},
		Weekdays: []string{"วันจันทร์", "วันอังคาร", "วันพุธ", "วันพฤหัสบดี", "วันศุกร์", "วันเสาร์", "วันอาทิตย์"},
		Eras:     map[string]string{"be": "พ.ศ."},
	}
	out["buddhist"]["en"] = calendar.DateSymbols{
		Months: gregorianMonthsEn, Weekdays: weekdaysEn, Eras: map[string]string{"be": "BE"},
	}
	out["ethiopic"]["en"] = calendar.DateSymbols{
		Months: []string{"Meskerem", "Tekemt", "Hedar", "Tahsas", "Ter", "Yekatit",
			"Megabit", "Miazia", "Genbot", "Sene", "Hamle", "Nehasse", "Pagumen"},
		Weekdays: weekdaysEn,
		Eras:     map[string]string{"incar": "ERA1", "mundi": "ERA0"},
	}
	return out
}

// lengths is keyed by calendar identifier, then locale.
func lengths() map[string]map[string]calendar.DateLengths {
	out := make(map[string]map[string]calendar.DateLengths)
	for _, kind := range calendar.AllKinds() {
		out[kind.String()] = map[string]calendar.DateLengths{
			"und": {Full: "G y MMMM d, EEEE", Long: "G y MMMM d", Medium: "G y MMM d", Short: "GGGGG y-MM-dd"},
		}
	}
	out["gregory"]["en"] = calendar.DateLengths{Full: "EEEE, MMMM d, y", Long: "MMMM d, y", Medium: "MMM d, y", Short: "M/d/yy"}
	out["gregory"]["ja"] = calendar.DateLengths{Full: "y年M月d日EEEE", Long: "y年M月d日", Medium: "y/MM/dd", Short: "y/MM/dd"}
	out["japanese"]["ja"] = calendar.DateLengths{Full: "Gy年M月d日EEEE", Long: "Gy年M月d日", Medium: "Gy年M月d日", Short: "GGGGGy/M/d"}
	out["japanese"]["en"] = calendar.DateLengths{Full: "EEEE, MMMM d, y G", Long: "MMMM d, y G", Medium: "MMM d, y G", Short: "M/d/y GGGGG"}
	out["buddhist"]["th"] = calendar.DateLengths{Full: "EEEEที่ d MMMM G y", Long: "d MMMM G y", Medium: "d MMM G y", Short: "d/M/yy"}
	return out
}
