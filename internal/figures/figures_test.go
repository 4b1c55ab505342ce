package figures

import (
	"strings"
	"testing"

	"hub-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram(t *testing.T) {
	fig, err := Histogram("Total Visits by Location", []models.GroupValue{
		{Group: "North", Value: 7},
		{Group: "South", Value: 1},
	})
	require.NoError(t, err)
	require.NotNil(t, fig)
	assert.Equal(t, "Total Visits by Location", fig.Title)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(fig.SVG)), "<svg"))
	assert.Contains(t, string(fig.SVG), "North")
}

func TestHistogramSingleAndZeroBars(t *testing.T) {
	fig, err := Histogram("one", []models.GroupValue{{Group: "Only", Value: 4}})
	require.NoError(t, err)
	assert.NotNil(t, fig)

	fig, err = Histogram("zero", []models.GroupValue{{Group: "A", Value: 0}, {Group: "B", Value: 0}})
	require.NoError(t, err)
	assert.NotNil(t, fig)
}

func TestEmptyInputsAreUnavailable(t *testing.T) {
	fig, err := Histogram("x", nil)
	assert.NoError(t, err)
	assert.Nil(t, fig)

	fig, err = SplitHistogram("x", nil)
	assert.NoError(t, err)
	assert.Nil(t, fig)

	fig, err = Pie("x", models.CountTable{Column: "GENDER"})
	assert.NoError(t, err)
	assert.Nil(t, fig)

	assert.Nil(t, CountTable("x", "Count", models.CountTable{Column: "EDUCATION"}))
}

func TestSplitHistogramLegend(t *testing.T) {
	fig, err := SplitHistogram("Visits by Segmentation", []models.SplitGroup{
		{Group: "Family", Splits: []models.GroupValue{{Group: "F", Value: 6}, {Group: "M", Value: 1}}},
		{Group: "Solo", Splits: []models.GroupValue{{Group: "F", Value: 0}, {Group: "M", Value: 3}}},
	})
	require.NoError(t, err)
	require.NotNil(t, fig)
	assert.Equal(t, []LegendEntry{
		{Label: "F", Color: "#636EFA"},
		{Label: "M", Color: "#EF553B"},
	}, fig.Legend)
}

func TestPieLabelsCarryShare(t *testing.T) {
	fig, err := Pie("Gender Distribution of Customers", models.CountTable{
		Column: "GENDER",
		Rows:   []models.CategoryCount{{Category: "F", Count: 3}, {Category: "M", Count: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, fig)
	assert.Contains(t, string(fig.SVG), "F (75.0%)")
}

func TestCountTable(t *testing.T) {
	tbl := CountTable("Location Segmentation Profile", "HUB_COUNTS", models.CountTable{
		Column: "SEGMENTATION",
		Rows:   []models.CategoryCount{{Category: "Family", Count: 2}},
	})
	require.NotNil(t, tbl)
	assert.Equal(t, [2]string{"SEGMENTATION", "HUB_COUNTS"}, tbl.Headers)
	assert.Len(t, tbl.Rows, 1)
}

func TestLabelsAreEscaped(t *testing.T) {
	fig, err := Histogram("hubs", []models.GroupValue{{Group: "<i>x</i>", Value: 2}, {Group: "A&B", Value: 1}})
	require.NoError(t, err)
	svg := string(fig.SVG)
	assert.Contains(t, svg, "&lt;i&gt;x&lt;/i&gt;")
	assert.Contains(t, svg, "A&amp;B")
	assert.NotContains(t, svg, "<i>x</i>")

	fig, err = Pie("gender", models.CountTable{Column: "GENDER", Rows: []models.CategoryCount{{Category: "<b>F</b>", Count: 1}}})
	require.NoError(t, err)
	assert.Contains(t, string(fig.SVG), "&lt;b&gt;F&lt;/b&gt;")
	assert.NotContains(t, string(fig.SVG), "<b>F</b>")

	fig, err = SplitHistogram("segments", []models.SplitGroup{
		{Group: "<s>", Splits: []models.GroupValue{{Group: "F", Value: 1}}},
	})
	require.NoError(t, err)
	assert.NotContains(t, string(fig.SVG), "<s>")
}
