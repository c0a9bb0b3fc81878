package web

import (
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// shanghai has no daylight saving, so a fixed zone avoids depending on tzdata.
var shanghai = time.FixedZone("CST", 8*60*60)

// thousands formats v with grouping separators and no decimals: 1234567.8 -> "1,234,568".
func thousands(v any) string {
	return printer.Sprintf("%.0f", toFloat(v))
}

// decimal2 formats a statistic for the table view.
func decimal2(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return printer.Sprintf("%.2f", v)
}

// price prints the shortest representation of an already rounded estimate.
func price(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clock(now time.Time) string {
	return now.In(shanghai).Format("2006-01-02 15:04:05")
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
