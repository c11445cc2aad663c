package chart

import (
	"time"

	"github.com/mmynk/finboard/internal/models"
)

const (
	day = 24 * time.Hour

	weekBuckets  = 7
	monthBuckets = 5
	yearBuckets  = 12
)

// Aggregate places each record into the bucket of g it falls in, relative
// to now, and returns the buckets in their fixed label order.
//
// Windows:
//   - Week: records 0-6 whole days old, bucketed by weekday (Monday first)
//   - Month: records 0-4 whole weeks old, most recent week last
//   - Year: records 0-11 whole calendar months old, bucketed by calendar month
//
// Year buckets are keyed by calendar month only, so two records from the same
// month of different years land in the same bucket.
//
// Records outside the window, including future ones, are counted as dropped.
// An unknown granularity yields an empty set with every record dropped.
func Aggregate(records []models.Record, g Granularity, now time.Time) BucketSet {
	labels := g.Labels()
	set := BucketSet{
		Granularity: g,
		Buckets:     make([]Bucket, len(labels)),
	}
	for i, label := range labels {
		set.Buckets[i].Label = label
	}

	for _, r := range records {
		idx, ok := bucketIndex(g, r.OccurredAt, now)
		if !ok {
			set.Dropped++
			continue
		}
		amount := thousands(r.Amount)
		if r.IsInflow() {
			set.Buckets[idx].In += amount
		} else {
			set.Buckets[idx].Out += amount
		}
		set.Placed++
	}

	return set
}

func bucketIndex(g Granularity, at, now time.Time) (int, bool) {
	switch g {
	case Week:
		age := ageInDays(at, now)
		if age < 0 || age >= weekBuckets {
			return 0, false
		}
		return mondayFirst(at.In(now.Location()).Weekday()), true
	case Month:
		age := ageInDays(at, now)
		if age < 0 {
			return 0, false
		}
		offset := age / 7
		if offset >= monthBuckets {
			return 0, false
		}
		return monthBuckets - 1 - int(offset), true
	case Year:
		months := monthsBetween(at, now)
		if months < 0 || months >= yearBuckets {
			return 0, false
		}
		return int(at.In(now.Location()).Month()) - 1, true
	}
	return 0, false
}

// ageInDays is the number of whole days from at to now, floored, so
// anything after now is negative.
func ageInDays(at, now time.Time) int64 {
	d := now.Sub(at)
	days := int64(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// monthsBetween counts whole calendar months from at to now. A month is
// complete once the same day and time of day has been reached.
func monthsBetween(at, now time.Time) int {
	at = at.In(now.Location())
	months := (now.Year()-at.Year())*12 + int(now.Month()) - int(at.Month())
	if at.AddDate(0, months, 0).After(now) {
		months--
	}
	return months
}

func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// WindowStart is a lower bound on when a record can have occurred and still
// be placed by an aggregation at now. Callers use it to narrow what they load.
func (g Granularity) WindowStart(now time.Time) time.Time {
	switch g {
	case Week:
		return now.Add(-weekBuckets * day)
	case Month:
		return now.Add(-monthBuckets * 7 * day)
	case Year:
		return now.AddDate(-1, 0, -1)
	}
	return now
}
