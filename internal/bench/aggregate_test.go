// internal/bench/aggregate_test.go
package bench

import (
	"math"
	"math/rand"
	"testing"
)

func measured(name, ts string, hw *Hardware, commit *Commit, regions ...RegionMeasurement) *Record {
	return &Record{
		Metadata: &Metadata{
			BenchmarkName: name,
			Timestamp:     ts,
			Hardware:      hw,
			GitCommit:     commit,
		},
		Regions: regions,
	}
}

func TestAggregateSameDayMean(t *testing.T) {
	t.Parallel()

	// Two runs of the same benchmark on the same UTC day: the displayed
	// value is the mean, the hover detail keeps both measurements.
	records := []*Record{
		measured("poisson_solve", "2026-03-14T09:00:00", nil, &Commit{Hash: "aaaa111"},
			RegionMeasurement{Region: "assembly", Time: 2.0}),
		measured("poisson_solve", "2026-03-14T17:00:00", nil, &Commit{Hash: "bbbb222"},
			RegionMeasurement{Region: "assembly", Time: 4.0}),
	}

	series := Aggregate("poisson_solve", records)
	if len(series.Days) != 1 {
		t.Fatalf("got %d days, want 1", len(series.Days))
	}
	day := series.Days[0]
	if day.Date != "2026-03-14" {
		t.Fatalf("day = %q", day.Date)
	}
	if got := day.Means["assembly"]; got != 3.0 {
		t.Fatalf("assembly mean = %v, want 3.0", got)
	}
	samples := day.Samples["assembly"]
	if len(samples) != 2 {
		t.Fatalf("retained %d samples, want 2", len(samples))
	}
	if samples[0].Value != 2.0 || samples[1].Value != 4.0 {
		t.Fatalf("samples not time-of-day ordered: %+v", samples)
	}
	if samples[0].Commit.Hash != "aaaa111" || samples[1].Commit.Hash != "bbbb222" {
		t.Fatalf("samples lost commit context: %+v", samples)
	}
	if day.RunCount() != 2 {
		t.Fatalf("RunCount = %d, want 2", day.RunCount())
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	t.Parallel()

	base := []*Record{
		measured("b", "2026-03-14T01:00:00", nil, nil, RegionMeasurement{Region: "assembly", Time: 1.0}, RegionMeasurement{Region: "solve", Time: 5.0}),
		measured("b", "2026-03-14T08:00:00", nil, nil, RegionMeasurement{Region: "assembly", Time: 3.0}),
		measured("b", "2026-03-14T20:00:00", nil, nil, RegionMeasurement{Region: "assembly", Time: 2.0}, RegionMeasurement{Region: "solve", Time: 7.0}),
	}

	want := Aggregate("b", base)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]*Record, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Aggregate("b", shuffled)
		for region, mean := range want.Days[0].Means {
			if math.Abs(got.Days[0].Means[region]-mean) > 1e-12 {
				t.Fatalf("trial %d: mean for %s = %v, want %v", trial, region, got.Days[0].Means[region], mean)
			}
		}
	}
}

func TestAggregateMissingRegionIsAbsentNotErrored(t *testing.T) {
	t.Parallel()

	records := []*Record{
		measured("b", "2026-03-14T01:00:00", nil, nil, RegionMeasurement{Region: "assembly", Time: 1.0}),
		measured("b", "2026-03-15T01:00:00", nil, nil, RegionMeasurement{Region: "solve", Time: 2.0}),
	}

	series := Aggregate("b", records)
	if len(series.Days) != 2 {
		t.Fatalf("got %d days, want 2", len(series.Days))
	}
	// Day one has no "solve" entry; the chart layer renders it as zero.
	if _, ok := series.Days[0].Means["solve"]; ok {
		t.Fatal("day one should have no solve mean")
	}
	if got := series.Regions; len(got) != 2 || got[0] != "assembly" || got[1] != "solve" {
		t.Fatalf("Regions = %v", got)
	}
}

func TestAggregateTracksLatestHardware(t *testing.T) {
	t.Parallel()

	older := &Hardware{CPUModel: "EPYC 7763"}
	newer := &Hardware{CPUModel: "EPYC 9654"}
	records := []*Record{
		measured("b", "2026-03-15T01:00:00", newer, nil, RegionMeasurement{Region: "assembly", Time: 1.0}),
		measured("b", "2026-03-14T01:00:00", older, nil, RegionMeasurement{Region: "assembly", Time: 1.0}),
	}

	series := Aggregate("b", records)
	if series.LatestHardware == nil || series.LatestHardware.CPUModel != "EPYC 9654" {
		t.Fatalf("LatestHardware = %+v", series.LatestHardware)
	}
}

func TestAggregateAllOrdersCPUBeforeGPU(t *testing.T) {
	t.Parallel()

	groups := map[string][]*Record{
		"gpu/poisson_solve": {measured("poisson_solve", "2026-03-14T01:00:00", nil, nil)},
		"cpu/zeta_bench":    {measured("zeta_bench", "2026-03-14T01:00:00", nil, nil)},
		"cpu/poisson_solve": {measured("poisson_solve", "2026-03-14T01:00:00", nil, nil)},
	}

	all := AggregateAll(groups)
	keys := []string{all[0].Key, all[1].Key, all[2].Key}
	want := []string{"cpu/poisson_solve", "cpu/zeta_bench", "gpu/poisson_solve"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("order = %v, want %v", keys, want)
		}
	}
}
