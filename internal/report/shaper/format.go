package shaper

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/smallbiznis/wasafinance/internal/period"
)

// FormatIDR renders whole rupiah with dot grouping, e.g. "Rp 1.250.000".
func FormatIDR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "Rp " + strings.ReplaceAll(humanize.Comma(amount), ",", ".")
}

// FormatDate renders t as "15 Oktober 2024" in loc. The zero time renders
// as "-".
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%d %s %d", t.Day(), period.MonthName(t.Month()), t.Year())
}

func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%s %02d:%02d", FormatDate(t, nil), t.Hour(), t.Minute())
}

// FormatBasisPoints renders 4000 as "40%" and 3333 as "33,33%".
func FormatBasisPoints(bp int64) string {
	if bp%100 == 0 {
		return fmt.Sprintf("%d%%", bp/100)
	}
	return fmt.Sprintf("%d,%02d%%", bp/100, bp%100)
}

func formatCount(n int) string {
	return strings.ReplaceAll(humanize.Comma(int64(n)), ",", ".")
}
