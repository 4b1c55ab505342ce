// Package view assembles the dashboard page: scorecards, charts, count
// tables and the point map, each replaced by a placeholder when unavailable.
package view

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"hub-dashboard/internal/calculator"
	"hub-dashboard/internal/figures"
	"hub-dashboard/internal/geomap"
	"hub-dashboard/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplate is the template name the page renders with.
const PageTemplate = "index.html"

type SectionKind string

const (
	KindChart SectionKind = "chart"
	KindTable SectionKind = "table"
	KindMap   SectionKind = "map"
)

type Scorecard struct {
	Label string
	Value string
}

// Section is one page element after the scorecards. Exactly one of Figure,
// Table or Map is set when the element is available.
type Section struct {
	Kind        SectionKind
	Placeholder string
	Figure      *figures.Figure
	Table       *figures.Table
	Map         *MapPanel
}

func (s Section) Available() bool {
	switch s.Kind {
	case KindChart:
		return s.Figure != nil
	case KindTable:
		return s.Table != nil
	case KindMap:
		return s.Map != nil
	}
	return false
}

type MapPanel struct {
	Title     string
	GeoJSON   template.JS
	CenterLat float64
	CenterLon float64
	Zoom      int
	TileURL   string
	Legend    []figures.LegendEntry
	Points    int
}

type Page struct {
	ID         string
	Title      string
	Scorecards []Scorecard
	Sections   []Section
}

type MapOptions struct {
	Zoom    int
	TileURL string
}

// Input is everything the page is built from.
type Input struct {
	Title     string
	Customers *calculator.Aggregator
	// Map is nil when the point map could not be composed.
	Map        *geomap.Composite
	MapOptions MapOptions
}

// Build assembles the page in its fixed order. Unavailable elements become
// placeholders; figure render failures are logged, never returned.
func Build(in Input, log *zap.Logger) *Page {
	if log == nil {
		log = zap.NewNop()
	}
	agg := in.Customers
	p := &Page{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Scorecards: Scorecards(agg.Summary()),
	}

	chart := func(placeholder string, fig *figures.Figure, err error) {
		if err != nil {
			log.Warn("figure unavailable", zap.String("placeholder", placeholder), zap.Error(err))
			fig = nil
		}
		p.Sections = append(p.Sections, Section{Kind: KindChart, Placeholder: placeholder, Figure: fig})
	}
	table := func(placeholder string, tbl *figures.Table) {
		p.Sections = append(p.Sections, Section{Kind: KindTable, Placeholder: placeholder, Table: tbl})
	}

	fig, err := figures.Histogram("Total Visits by Location", agg.SumBy(models.ColHubName, models.ColVisits))
	chart("No location data available.", fig, err)

	fig, err = figures.Pie("Gender Distribution of Customers", agg.CountsBy(models.ColGender))
	chart("No gender data available.", fig, err)

	educationCounts := agg.CountsBy(models.ColEducation)
	fig, err = figures.Pie("Education Level Distribution of Customers", educationCounts)
	chart("No education data available.", fig, err)

	fig, err = figures.SplitHistogram("Visits by Segmentation",
		agg.SumBySplit(models.ColSegmentation, models.ColGender, models.ColVisits))
	chart("No segmentation data available.", fig, err)

	table("No segmentation data available.",
		figures.CountTable("Location Segmentation Profile", "HUB_COUNTS", agg.CountsBy(models.ColSegmentation)))
	table("No education data available.",
		figures.CountTable("Visitors by Education", "VISITS_COUNT", educationCounts))

	panel, err := mapPanel(in.Map, in.MapOptions)
	if err != nil {
		log.Warn("map unavailable", zap.Error(err))
	}
	p.Sections = append(p.Sections, Section{
		Kind:        KindMap,
		Placeholder: "No latitude/longitude data available.",
		Map:         panel,
	})
	return p
}

// Scorecards formats the five headline numbers.
func Scorecards(s models.Summary) []Scorecard {
	return []Scorecard{
		{Label: "Total Records in Table", Value: strconv.Itoa(s.TotalRecords)},
		{Label: "Total Visits", Value: formatCount(s.TotalVisits)},
		{Label: "Dwelling Owners", Value: fmt.Sprintf("%.1f%%", s.OwnerPercentage)},
		{Label: "Unique Store Visits", Value: strconv.Itoa(s.UniqueHubs)},
		{Label: "Average Distance to Store", Value: fmt.Sprintf("%.1fkm", s.AverageHubDistance)},
	}
}

// formatCount prints whole numbers without a fraction.
func formatCount(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func mapPanel(comp *geomap.Composite, opts MapOptions) (*MapPanel, error) {
	if comp == nil {
		return nil, nil
	}
	fc := comp.FeatureCollection()
	if len(fc.Features) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("encode map points: %w", err)
	}
	vp := comp.Viewport(opts.Zoom)
	return &MapPanel{
		Title:     "Customer and Hub Locations Map",
		GeoJSON:   template.JS(raw),
		CenterLat: vp.Center.Lat,
		CenterLon: vp.Center.Lon,
		Zoom:      vp.Zoom,
		TileURL:   opts.TileURL,
		Points:    len(fc.Features),
		Legend: []figures.LegendEntry{
			{Label: string(models.PointCustomer), Color: "#" + geomap.Colors[models.PointCustomer]},
			{Label: string(models.PointHub), Color: "#" + geomap.Colors[models.PointHub]},
		},
	}, nil
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

func Render(w io.Writer, p *Page) error {
	return Templates().ExecuteTemplate(w, PageTemplate, p)
}
