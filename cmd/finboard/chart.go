package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"

	"github.com/mmynk/finboard/internal/chart"
	"github.com/mmynk/finboard/internal/report"
	"github.com/mmynk/finboard/internal/storage/sqlite"
)

type chartCmd struct {
	*app
	granularity string
	now         string
	currency    string
	width       int
	plain       bool
	asJSON      bool
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "print incoming and outgoing totals per period" }
func (*chartCmd) Usage() string {
	return `finboard chart [-g week|month|year] [-now <time>] [-c <currency>] [-plain | -json]

  Buckets the stored records into the periods of the chosen granularity,
  ending at -now, and prints the totals as a table. Totals are rounded to
  thousands of the currency.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.granularity, "g", "month", "Granularity of the chart (week, month, year).")
	f.StringVar(&c.now, "now", "", "End of the charted window (RFC 3339 or YYYY-MM-DD, default now).")
	f.StringVar(&c.currency, "c", "USD", "ISO 4217 currency used to display totals.")
	f.IntVar(&c.width, "width", 80, "Word wrap width of the rendered table.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of styled output.")
	f.BoolVar(&c.asJSON, "json", false, "Print the bucket set as JSON.")
}

func (c *chartCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := chart.ParseGranularity(c.granularity)
	if err != nil {
		return c.errorf("Error: %v", err)
	}
	now, err := parseNow(c.now)
	if err != nil {
		return c.errorf("Error: %v", err)
	}
	currency := strings.ToUpper(c.currency)
	if money.GetCurrency(currency) == nil {
		return c.errorf("Error: unknown currency %q", c.currency)
	}

	store, err := sqlite.New(c.dbPath)
	if err != nil {
		return c.errorf("Error opening database: %v", err)
	}
	defer store.Close()

	records, err := store.ListRecords(ctx, g.WindowStart(now))
	if err != nil {
		return c.errorf("Error listing records: %v", err)
	}
	set := chart.Aggregate(records, g, now)

	if c.asJSON {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(set); err != nil {
			return c.errorf("Error encoding chart: %v", err)
		}
		return subcommands.ExitSuccess
	}

	md := report.Markdown(set, currency, now)
	if !c.plain {
		md = report.Render(md, c.width)
	}
	fmt.Fprint(c.stdout, md)
	return subcommands.ExitSuccess
}
