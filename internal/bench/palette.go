// internal/bench/palette.go
package bench

import (
	"fmt"
	"math"
	"sort"
)

// goldenAngle spaces consecutive hues maximally apart on the color wheel.
const goldenAngle = 137.50776405003785

// AllRegions returns the sorted set of distinct region names across all
// aggregated series.
func AllRegions(series []DailySeries) []string {
	set := make(map[string]bool)
	for _, s := range series {
		for _, r := range s.Regions {
			set[r] = true
		}
	}
	regions := make([]string, 0, len(set))
	for r := range set {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// Palette assigns each region a color from golden-angle hue increments of
// its sorted rank. The mapping is a pure function of the region set, so a
// region keeps its color no matter which benchmark groups reference it.
func Palette(regions []string) map[string]string {
	sorted := make([]string, len(regions))
	copy(sorted, regions)
	sort.Strings(sorted)

	palette := make(map[string]string, len(sorted))
	for i, region := range sorted {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		palette[region] = fmt.Sprintf("hsl(%d, 70%%, 50%%)", int(math.Round(hue)))
	}
	return palette
}
