// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chart renders citation trend charts to image files. The output
// format follows the file extension; the CLI defaults to PNG.
package chart

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/pdiddy/citation-tracker/internal/history"
	"github.com/pdiddy/citation-tracker/pkg/types"
)

// legendLimit caps how many series get a legend entry before the legend
// would dwarf the chart.
const legendLimit = 12

const dateFormat = "2006-01-02"

// TotalCitations renders the author's total citation count against fetch
// date and saves the chart to out.
func TotalCitations(points []types.ProfileSnapshot, out string) error {
	if len(points) == 0 {
		return fmt.Errorf("no snapshot points to plot")
	}

	p := plot.New()
	p.Title.Text = "Total Citations Over Time"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Total citations"
	p.X.Tick.Marker = plot.TimeTicks{Format: dateFormat}
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.FetchDate.Unix())
		xys[i].Y = float64(pt.TotalCitations)
	}

	line, scatter, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("building line: %w", err)
	}
	p.Add(line, scatter)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, out); err != nil {
		return fmt.Errorf("saving chart to %s: %w", out, err)
	}
	return nil
}

// PublicationTrends renders one line per publication over the shared
// timeline and saves the chart to out. Series are drawn in title order so
// colors stay stable between runs; the legend is omitted past legendLimit
// series.
func PublicationTrends(series history.PublicationSeries, out string) error {
	if len(series.Timeline) == 0 || len(series.Counts) == 0 {
		return fmt.Errorf("no publication series to plot")
	}

	p := plot.New()
	p.Title.Text = "Citation Trend Per Publication"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Citations"
	p.X.Tick.Marker = plot.TimeTicks{Format: dateFormat}
	p.Add(plotter.NewGrid())

	titles := make([]string, 0, len(series.Counts))
	for title := range series.Counts {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	withLegend := len(titles) <= legendLimit
	args := make([]interface{}, 0, 2*len(titles))
	for _, title := range titles {
		counts := series.Counts[title]
		if len(counts) != len(series.Timeline) {
			return fmt.Errorf("series %q has %d points for a %d-date timeline",
				title, len(counts), len(series.Timeline))
		}
		xys := make(plotter.XYs, len(series.Timeline))
		for i, ts := range series.Timeline {
			xys[i].X = float64(ts.Unix())
			xys[i].Y = float64(counts[i])
		}
		if withLegend {
			args = append(args, title)
		}
		args = append(args, xys)
	}

	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return fmt.Errorf("building lines: %w", err)
	}
	if withLegend {
		p.Legend.Top = true
	}

	if err := p.Save(12*vg.Inch, 7*vg.Inch, out); err != nil {
		return fmt.Errorf("saving chart to %s: %w", out, err)
	}
	return nil
}
