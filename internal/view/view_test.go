package view

import (
	"bytes"
	"strings"
	"testing"

	"hub-dashboard/internal/calculator"
	"hub-dashboard/internal/geomap"
	"hub-dashboard/internal/loader"
	"hub-dashboard/internal/models"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func frame(t *testing.T, records ...[]string) dataframe.DataFrame {
	t.Helper()
	df, err := loader.FromRecords(records)
	require.NoError(t, err)
	return df
}

func fullCustomers(t *testing.T) dataframe.DataFrame {
	return frame(t,
		[]string{"LAT", "LONG", "VISITS", "RESIDENCE", "HubName", "HubDist", "SEGMENTATION", "GENDER", "EDUCATION"},
		[]string{"14.55", "121.02", "2", "Owner", "North", "1.5", "Family", "F", "College"},
		[]string{"14.60", "121.05", "5", "Owner", "North", "2.5", "Solo", "M", "HighSchool"},
		[]string{"14.58", "121.01", "0", "Renter", "South", "5", "Family", "F", "College"},
		[]string{"14.57", "121.03", "1", "Owner", "South", "3", "Family", "M", "College"},
	)
}

func hubTable(t *testing.T) dataframe.DataFrame {
	return frame(t, []string{"lat", "long"}, []string{"14.5547", "121.0244"})
}

func build(t *testing.T, customers, hubs dataframe.DataFrame) *Page {
	t.Helper()
	comp, _ := geomap.Compose(customers, hubs)
	return Build(Input{
		Title:      "Hotel and Resto Dashboard",
		Customers:  calculator.NewAggregator(customers),
		Map:        comp,
		MapOptions: MapOptions{Zoom: 10, TileURL: "https://tile.openstreetmap.org/{z}/{x}/{y}.png"},
	}, zaptest.NewLogger(t))
}

func TestScorecards(t *testing.T) {
	cards := Scorecards(models.Summary{
		TotalRecords:       4,
		TotalVisits:        8,
		OwnerPercentage:    75,
		UniqueHubs:         2,
		AverageHubDistance: 3,
	})
	values := make([]string, 0, len(cards))
	for _, c := range cards {
		values = append(values, c.Value)
	}
	assert.Equal(t, []string{"4", "8", "75.0%", "2", "3.0km"}, values)
	assert.Equal(t, "Dwelling Owners", cards[2].Label)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "7", formatCount(7))
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "7.5", formatCount(7.5))
}

func TestBuildFullPage(t *testing.T) {
	p := build(t, fullCustomers(t), hubTable(t))

	require.Len(t, p.Sections, 7)
	kinds := []SectionKind{KindChart, KindChart, KindChart, KindChart, KindTable, KindTable, KindMap}
	for i, s := range p.Sections {
		assert.Equal(t, kinds[i], s.Kind, "section %d", i)
		assert.True(t, s.Available(), "section %d (%s) should be available", i, s.Placeholder)
	}
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "75.0%", p.Scorecards[2].Value)

	m := p.Sections[6].Map
	assert.Equal(t, 5, m.Points)
	assert.Equal(t, 10, m.Zoom)

	seg := p.Sections[4].Table
	assert.Equal(t, [2]string{"SEGMENTATION", "HUB_COUNTS"}, seg.Headers)
	assert.Equal(t, models.CategoryCount{Category: "Family", Count: 3}, seg.Rows[0])
}

func TestBuildWithoutEducation(t *testing.T) {
	customers := frame(t,
		[]string{"VISITS", "HubName", "GENDER"},
		[]string{"2", "A", "F"},
		[]string{"5", "A", "M"},
	)
	p := build(t, customers, hubTable(t))

	education := p.Sections[2]
	assert.False(t, education.Available())
	assert.Equal(t, "No education data available.", education.Placeholder)
	assert.False(t, p.Sections[5].Available())

	// No LAT/LONG on customers: no map.
	assert.False(t, p.Sections[6].Available())
	assert.True(t, p.Sections[0].Available())
	assert.True(t, p.Sections[1].Available())
}

func TestRenderPlaceholders(t *testing.T) {
	p := build(t, frame(t, []string{"GENDER"}), frame(t, []string{"LAT", "LONG"}, []string{"1", "2"}))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	html := buf.String()

	assert.Contains(t, html, "Hotel and Resto Dashboard")
	for _, msg := range []string{
		"No location data available.",
		"No gender data available.",
		"No education data available.",
		"No segmentation data available.",
		"No latitude/longitude data available.",
	} {
		assert.Contains(t, html, msg)
	}
	assert.NotContains(t, html, "<svg")
	assert.NotContains(t, html, "L.map(")
}

func TestRenderFullPage(t *testing.T) {
	p := build(t, fullCustomers(t), hubTable(t))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	html := buf.String()

	assert.Equal(t, 4, strings.Count(html, "<svg"))
	assert.Contains(t, html, "Location Segmentation Profile")
	assert.Contains(t, html, "Visitors by Education")
	assert.Contains(t, html, "L.map(")
	assert.Contains(t, html, `"FeatureCollection"`)
	assert.NotContains(t, html, "No latitude/longitude data available.")

	// Scorecards keep their order.
	first := strings.Index(html, "Total Records in Table")
	last := strings.Index(html, "Average Distance to Store")
	assert.True(t, first >= 0 && first < last)
}

func TestRenderEscapesCategoryLabels(t *testing.T) {
	customers := frame(t,
		[]string{"VISITS", "HubName", "EDUCATION"},
		[]string{"2", "<i>x</i>", "<b>College</b>"},
		[]string{"5", "A&B", "College"},
	)
	p := build(t, customers, hubTable(t))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	out := buf.String()
	assert.NotContains(t, out, "<i>x</i>")
	assert.NotContains(t, out, "<b>College</b>")
	assert.Contains(t, out, "&lt;i&gt;x&lt;/i&gt;")
	assert.Contains(t, out, "A&amp;B")
}
