package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/finboard/internal/chart"
	"github.com/mmynk/finboard/internal/models"
)

func TestMarkdown(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	set := chart.Aggregate([]models.Record{
		{Direction: models.DirectionIn, Amount: decimal.NewFromInt(50000), OccurredAt: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)},
		{Direction: models.DirectionOut, Amount: decimal.NewFromInt(70000), OccurredAt: now},
		{Direction: models.DirectionOut, Amount: decimal.NewFromInt(1000), OccurredAt: now.AddDate(0, 0, -30)},
	}, chart.Week, now)

	md := Markdown(set, "USD", now)

	assert.Contains(t, md, "# Cash flow by week")
	assert.Contains(t, md, "As of Mon Jun 10, 2024.")
	assert.Contains(t, md, "| Sat | $50,000.00 | - | $50,000.00 |")
	assert.Contains(t, md, "| Mon | - | $70,000.00 | -$70,000.00 |")
	assert.Contains(t, md, "| Tue | - | - | - |")
	assert.Contains(t, md, "| **Total** | **$50,000.00** | **$70,000.00** | **-$20,000.00** |")
	assert.Contains(t, md, "2 records charted, 1 outside the window.")
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "-", display(0, "EUR"))
	assert.Equal(t, "$1,000.00", display(1, "USD"))
	assert.Equal(t, "-$12,000.00", display(-12, "USD"))
}

func TestRender(t *testing.T) {
	out := Render("| Period | In |\n|:--|--:|\n| Sat | 50 |\n", 80)
	assert.Contains(t, out, "Sat")
}
