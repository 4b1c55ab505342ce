// Package figures renders dashboard charts as inline SVG with go-chart and
// shapes count tables for HTML. A nil figure means there is nothing to show.
package figures

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"math"

	"hub-dashboard/internal/models"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is the series color cycle, as hex without '#'.
var Palette = []string{
	"636EFA", "EF553B", "00CC96", "AB63FA", "FFA15A",
	"19D3F3", "FF6692", "B6E880", "FF97FF", "FECB52",
}

const (
	chartHeight = 420
	minWidth    = 640
	barWidth    = 36
	barSpacing  = 12
	pieSize     = 460
)

type Figure struct {
	Title  string
	SVG    template.HTML
	Legend []LegendEntry
}

type LegendEntry struct {
	Label string
	Color string
}

type renderer interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(title string, c renderer) (*Figure, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	return &Figure{Title: title, SVG: template.HTML(buf.String())}, nil
}

// label escapes text for the SVG markup; go-chart writes labels verbatim.
func label(s string) string {
	return html.EscapeString(s)
}

func color(i int) drawing.Color {
	return drawing.ColorFromHex(Palette[i%len(Palette)])
}

func valueStyle(i int) chart.Style {
	return chart.Style{FillColor: color(i), StrokeColor: color(i), StrokeWidth: 1}
}

func barChart(bars []chart.Value) chart.BarChart {
	maxV := 0.0
	for _, b := range bars {
		maxV = math.Max(maxV, b.Value)
	}
	if maxV <= 0 {
		maxV = 1
	}
	width := len(bars)*(barWidth+barSpacing) + 120
	if width < minWidth {
		width = minWidth
	}
	return chart.BarChart{
		Width:      width,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 10, Right: 10, Bottom: 10}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: maxV}},
		Bars:       bars,
	}
}

// Histogram draws one bar per group, in the given order.
func Histogram(title string, groups []models.GroupValue) (*Figure, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	bars := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		bars = append(bars, chart.Value{Label: label(g.Group), Value: g.Value, Style: valueStyle(0)})
	}
	return render(title, barChart(bars))
}

// SplitHistogram draws one bar per (group, split) pair, grouped by group and
// colored by split, with a legend for the splits.
func SplitHistogram(title string, groups []models.SplitGroup) (*Figure, error) {
	if len(groups) == 0 || len(groups[0].Splits) == 0 {
		return nil, nil
	}
	var bars []chart.Value
	for _, g := range groups {
		for i, s := range g.Splits {
			bars = append(bars, chart.Value{
				Label: label(g.Group + " " + s.Group),
				Value: s.Value,
				Style: valueStyle(i),
			})
		}
	}
	fig, err := render(title, barChart(bars))
	if err != nil {
		return nil, err
	}
	for i, s := range groups[0].Splits {
		fig.Legend = append(fig.Legend, LegendEntry{Label: s.Group, Color: "#" + Palette[i%len(Palette)]})
	}
	return fig, nil
}

// Pie draws category shares. Slice labels carry the percentage.
func Pie(title string, counts models.CountTable) (*Figure, error) {
	total := counts.Total()
	if counts.Empty() || total == 0 {
		return nil, nil
	}
	values := make([]chart.Value, 0, len(counts.Rows))
	for i, r := range counts.Rows {
		pct := float64(r.Count) / float64(total) * 100
		values = append(values, chart.Value{
			Label: label(fmt.Sprintf("%s (%.1f%%)", r.Category, pct)),
			Value: float64(r.Count),
			Style: valueStyle(i),
		})
	}
	return render(title, chart.PieChart{Width: pieSize, Height: pieSize, Values: values})
}

// Table is a two-column category/count table ready for HTML.
type Table struct {
	Title   string
	Headers [2]string
	Rows    []models.CategoryCount
}

// CountTable returns nil when counts has no rows.
func CountTable(title, countHeader string, counts models.CountTable) *Table {
	if counts.Empty() {
		return nil
	}
	return &Table{
		Title:   title,
		Headers: [2]string{counts.Column, countHeader},
		Rows:    counts.Rows,
	}
}
