// Package chart turns dated money flows into fixed-shape in/out series for
// the dashboard charts.
package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownGranularity = errors.New("unknown granularity")

// Granularity is the bucket resolution of an aggregation.
type Granularity string

const (
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// ParseGranularity accepts "week", "month" or "year", case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Week, Month, Year:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

var (
	weekLabels  = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	monthLabels = []string{"Week 1", "Week 2", "Week 3", "Week 4", "Week 5"}
	yearLabels  = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// Labels returns the fixed bucket labels of g, or nil for an unknown granularity.
func (g Granularity) Labels() []string {
	switch g {
	case Week:
		return weekLabels
	case Month:
		return monthLabels
	case Year:
		return yearLabels
	}
	return nil
}

// Bucket is one labeled time slice. Totals are in thousands of the account
// currency.
type Bucket struct {
	Label string `json:"label"`
	In    int64  `json:"in"`
	Out   int64  `json:"out"`
}

// BucketSet is the result of one aggregation.
type BucketSet struct {
	Granularity Granularity `json:"granularity"`
	Buckets     []Bucket    `json:"buckets"`

	// Placed and Dropped count the records that did and did not land in a bucket.
	Placed  int `json:"placed"`
	Dropped int `json:"dropped"`
}

// Totals sums every bucket.
func (s BucketSet) Totals() (in, out int64) {
	for _, b := range s.Buckets {
		in += b.In
		out += b.Out
	}
	return in, out
}

// Series is one named line of a chart.
type Series struct {
	Name   string  `json:"name"`
	Values []int64 `json:"values"`
}

// ChartData is the shape the charting front-end consumes.
type ChartData struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Chart converts the set into labels plus an "in" and an "out" series.
func (s BucketSet) Chart() ChartData {
	data := ChartData{
		Labels: make([]string, len(s.Buckets)),
		Series: []Series{
			{Name: "in", Values: make([]int64, len(s.Buckets))},
			{Name: "out", Values: make([]int64, len(s.Buckets))},
		},
	}
	for i, b := range s.Buckets {
		data.Labels[i] = b.Label
		data.Series[0].Values[i] = b.In
		data.Series[1].Values[i] = b.Out
	}
	return data
}

var half = decimal.NewFromFloat(0.5)

// thousands scales amount down by 1000 and rounds half up.
func thousands(amount decimal.Decimal) int64 {
	return amount.Shift(-3).Add(half).Floor().IntPart()
}
