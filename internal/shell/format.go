package shell

import (
	"time"

	"github.com/dustin/go-humanize"
)

const DateLayout = "Jan 2, 2006, 03:04 PM"

// FormatCurrency renders US dollars with grouping and two decimals: $1,234.50.
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -amount)
	}
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

func FormatDate(t time.Time) string { return t.Format(DateLayout) }
