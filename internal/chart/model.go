// internal/chart/model.go
// Package chart builds the declarative chart specification the dashboard
// renders. The model is plain data with no rendering-library types; the
// echarts adapter in this package hands it to the charting sink.
package chart

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/solverlab/benchdash/internal/bench"
)

// MobileBreakpoint is the viewport width, in pixels, below which the
// subplot grid collapses to a single column.
const MobileBreakpoint = 768

// Options carries the per-render display context. A fresh Options is built
// for every render pass; nothing here outlives one page.
type Options struct {
	// ViewportWidth is the reported browser width; zero means unknown and
	// renders the desktop layout.
	ViewportWidth int

	// CommitBaseURL prefixes commit hashes to form clickable commit pages,
	// e.g. "https://github.com/solverlab/solver/commit/".
	CommitBaseURL string
}

// Columns returns the subplot grid width for a viewport: one column below
// the mobile breakpoint, two otherwise (unknown widths count as desktop).
func Columns(viewportWidth int) int {
	if viewportWidth > 0 && viewportWidth < MobileBreakpoint {
		return 1
	}
	return 2
}

// Model is one fully built chart page.
type Model struct {
	Columns  int
	Subplots []Subplot
}

// Subplot is one stacked-bar chart for a benchmark group.
type Subplot struct {
	Key   string
	Title string
	Class string
	Days  []string
	Series []Series

	// HasSlider marks the subplot carrying the x-range selector. Only the
	// first subplot gets one; the rest mirror its visible range.
	HasSlider bool
}

// Series is one region's bars across the subplot's days.
type Series struct {
	Region string
	Color  string
	Points []Point
}

// Point is one bar segment: a region's daily mean plus its hover text and
// click payload.
type Point struct {
	Day   string
	Value float64

	// Hover is pre-rendered detail text, newline separated; the adapter
	// converts separators for its sink.
	Hover string

	// CommitURLs lists the commit pages of the measurements behind this
	// point; activating the bar opens the first in a new tab.
	CommitURLs []string
}

// Annotation is a subplot title positioned above its grid cell, in paper
// coordinates (0..1 from the top-left of the page).
type Annotation struct {
	Text string
	X    float64
	Y    float64
}

// Build constructs the chart model from aggregated benchmark series. Input
// order is preserved, so callers control CPU-before-GPU placement.
func Build(series []bench.DailySeries, palette map[string]string, o Options) Model {
	m := Model{Columns: Columns(o.ViewportWidth)}

	for i, s := range series {
		sp := Subplot{
			Key:       s.Key,
			Title:     Title(s),
			Class:     s.Class,
			HasSlider: i == 0,
		}
		for _, day := range s.Days {
			sp.Days = append(sp.Days, day.Date)
		}
		for _, region := range s.Regions {
			sp.Series = append(sp.Series, buildSeries(region, palette[region], s, o))
		}
		m.Subplots = append(m.Subplots, sp)
	}
	return m
}

func buildSeries(region, color string, s bench.DailySeries, o Options) Series {
	out := Series{Region: region, Color: color}
	for _, day := range s.Days {
		mean := day.Means[region] // absent regions chart as zero
		out.Points = append(out.Points, Point{
			Day:        day.Date,
			Value:      mean,
			Hover:      hoverText(day, region, mean),
			CommitURLs: commitURLs(day.Samples[region], o.CommitBaseURL),
		})
	}
	return out
}

// hoverText pre-renders a point's tooltip: date, region, and mean, plus an
// enumerated per-measurement breakdown when several runs were averaged.
func hoverText(day bench.Day, region string, mean float64) string {
	samples := day.Samples[region]
	head := fmt.Sprintf("%s — %s: %.3f s", day.Date, region, mean)
	if len(samples) <= 1 {
		return head
	}

	lines := []string{fmt.Sprintf("%s (avg of %d runs)", head, len(samples))}
	for i, sample := range samples {
		line := fmt.Sprintf("%d) %s · %.3f s", i+1, sample.At.Format("15:04"), sample.Value)
		if hw := sample.Hardware.Summary(); hw != "" {
			line += " · " + hw
		}
		if hash := sample.Commit.ShortHash(); hash != "" {
			line += " · " + hash
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func commitURLs(samples []bench.Sample, baseURL string) []string {
	if baseURL == "" {
		return nil
	}
	var urls []string
	seen := make(map[string]bool)
	for _, sample := range samples {
		if sample.Commit == nil || sample.Commit.Hash == "" || seen[sample.Commit.Hash] {
			continue
		}
		seen[sample.Commit.Hash] = true
		urls = append(urls, strings.TrimSuffix(baseURL, "/")+"/"+sample.Commit.Hash)
	}
	return urls
}

// Title converts a benchmark's technical identifier into a human title:
// hardware-class prefix stripped, underscores as spaces, title-cased. GPU
// subplots append the hardware label derived from the newest record rather
// than assuming a fixed accelerator name.
func Title(s bench.DailySeries) string {
	title := titleCase(s.Name)
	if s.Class == "gpu" {
		label := s.LatestHardware.Summary()
		if label == "" {
			label = strings.ToUpper(s.Class)
		}
		title = fmt.Sprintf("%s (%s)", title, label)
	}
	return title
}

func titleCase(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Annotations places each subplot title above its grid cell.
func (m Model) Annotations() []Annotation {
	if len(m.Subplots) == 0 {
		return nil
	}
	cols := m.Columns
	if cols < 1 {
		cols = 1
	}
	rows := (len(m.Subplots) + cols - 1) / cols

	anns := make([]Annotation, 0, len(m.Subplots))
	for i, sp := range m.Subplots {
		col := i % cols
		row := i / cols
		anns = append(anns, Annotation{
			Text: sp.Title,
			X:    (float64(col) + 0.5) / float64(cols),
			Y:    float64(row) / float64(rows),
		})
	}
	return anns
}

// SortSubplots is a stable helper ordering subplots CPU-class first, then
// GPU, then by name; used when callers assemble subplots from mixed sources.
func SortSubplots(subplots []Subplot) {
	sort.SliceStable(subplots, func(i, j int) bool {
		ri, rj := classOrder(subplots[i].Class), classOrder(subplots[j].Class)
		if ri != rj {
			return ri < rj
		}
		return subplots[i].Key < subplots[j].Key
	})
}

func classOrder(class string) int {
	switch class {
	case "", "cpu":
		return 0
	case "gpu":
		return 1
	default:
		return 2
	}
}
