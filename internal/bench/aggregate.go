// internal/bench/aggregate.go
package bench

import (
	"sort"
	"time"
)

// Sample is one individual measurement retained for hover detail.
type Sample struct {
	At       time.Time
	Value    float64
	Hardware *Hardware
	Commit   *Commit
}

// Day aggregates all of one group's measurements on a UTC calendar day.
type Day struct {
	Date string // "2006-01-02", UTC

	// Means holds the arithmetic mean per region over the day's runs.
	// Regions absent from Means chart as zero-height segments.
	Means map[string]float64

	// Samples holds each region's individual measurements, ascending by
	// time-of-day, with their own hardware/commit context.
	Samples map[string][]Sample
}

// RunCount returns the number of underlying runs for the day's busiest
// region; it drives the "N runs averaged" hover annotation.
func (d Day) RunCount() int {
	max := 0
	for _, s := range d.Samples {
		if len(s) > max {
			max = len(s)
		}
	}
	return max
}

// DailySeries is the aggregated form of one benchmark group.
type DailySeries struct {
	Key     string // group key, class-prefixed when classed
	Class   string
	Name    string
	Days    []Day    // ascending by date
	Regions []string // distinct regions seen in this group, sorted

	// LatestHardware is the hardware descriptor of the newest record, used
	// for subplot title labeling.
	LatestHardware *Hardware
}

// Aggregate collapses a group's records into per-day regional means while
// retaining every contributing measurement. Same-day repeated runs average;
// permuting the input records of a day does not change the means.
func Aggregate(key string, records []*Record) DailySeries {
	class, name := SplitKey(key)
	series := DailySeries{Key: key, Class: class, Name: name}

	type bucket struct {
		sums   map[string]float64
		counts map[string]int
		days   *Day
	}
	buckets := make(map[string]*bucket)
	regionSet := make(map[string]bool)

	var latest time.Time
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		at, err := r.Metadata.Time()
		if err != nil {
			continue
		}
		if at.After(latest) {
			latest = at
			series.LatestHardware = r.Metadata.Hardware
		}

		date := at.UTC().Format("2006-01-02")
		b := buckets[date]
		if b == nil {
			b = &bucket{
				sums:   make(map[string]float64),
				counts: make(map[string]int),
				days: &Day{
					Date:    date,
					Means:   make(map[string]float64),
					Samples: make(map[string][]Sample),
				},
			}
			buckets[date] = b
		}

		for _, m := range r.Regions {
			regionSet[m.Region] = true
			b.sums[m.Region] += m.Time
			b.counts[m.Region]++
			b.days.Samples[m.Region] = append(b.days.Samples[m.Region], Sample{
				At:       at.UTC(),
				Value:    m.Time,
				Hardware: r.Metadata.Hardware,
				Commit:   r.Metadata.GitCommit,
			})
		}
	}

	for _, b := range buckets {
		for region, sum := range b.sums {
			b.days.Means[region] = sum / float64(b.counts[region])
		}
		for region := range b.days.Samples {
			samples := b.days.Samples[region]
			sort.SliceStable(samples, func(i, j int) bool {
				return samples[i].At.Before(samples[j].At)
			})
		}
		series.Days = append(series.Days, *b.days)
	}
	sort.Slice(series.Days, func(i, j int) bool {
		return series.Days[i].Date < series.Days[j].Date
	})

	for region := range regionSet {
		series.Regions = append(series.Regions, region)
	}
	sort.Strings(series.Regions)

	return series
}

// AggregateAll aggregates every group and orders the result with CPU-class
// series before GPU-class series, alphabetical within a class.
func AggregateAll(groups map[string][]*Record) []DailySeries {
	all := make([]DailySeries, 0, len(groups))
	for key, records := range groups {
		all = append(all, Aggregate(key, records))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Class != all[j].Class {
			return classRank(all[i].Class) < classRank(all[j].Class)
		}
		return all[i].Name < all[j].Name
	})
	return all
}

func classRank(class string) int {
	switch class {
	case "", "cpu":
		return 0
	case "gpu":
		return 1
	default:
		return 2
	}
}
