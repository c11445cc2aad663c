// Package report renders chart aggregations as markdown for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"

	"github.com/mmynk/finboard/internal/chart"
)

// Markdown renders set as a markdown table. Bucket totals are in thousands
// of currency, so they are scaled back up for display.
func Markdown(set chart.BucketSet, currency string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Cash flow by %s\n\n", set.Granularity)
	fmt.Fprintf(&b, "As of %s.\n\n", now.Format("Mon Jan 2, 2006"))

	b.WriteString("| Period | In | Out | Net |\n")
	b.WriteString("|:--|--:|--:|--:|\n")
	for _, bucket := range set.Buckets {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			bucket.Label,
			display(bucket.In, currency),
			display(bucket.Out, currency),
			display(bucket.In-bucket.Out, currency),
		)
	}

	in, out := set.Totals()
	fmt.Fprintf(&b, "| **Total** | **%s** | **%s** | **%s** |\n\n",
		display(in, currency), display(out, currency), display(in-out, currency))

	fmt.Fprintf(&b, "%d records charted, %d outside the window.\n", set.Placed, set.Dropped)
	return b.String()
}

// display formats a thousands-scaled total in currency.
func display(thousands int64, currency string) string {
	if thousands == 0 {
		return "-"
	}
	m := money.New(thousands*1000, currency)
	// go-money works in minor units
	m = m.Multiply(pow10(m.Currency().Fraction))
	return m.Display()
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// Render turns markdown into styled terminal output, falling back to the
// raw markdown when styling fails.
func Render(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
