// Package geomap merges customer and hub coordinates into one tagged point
// set for the dashboard map.
package geomap

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"hub-dashboard/internal/calculator"
	"hub-dashboard/internal/loader"
	"hub-dashboard/internal/models"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Marker colors per point type, as hex without '#'.
var Colors = map[models.PointType]string{
	models.PointCustomer: "636EFA",
	models.PointHub:      "EF553B",
}

// Composite is the combined LAT/LONG/Type frame, customers first.
type Composite struct {
	frame dataframe.DataFrame
}

// Compose builds the combined point frame. It reports false when either table
// is empty or lacks its coordinate columns. Neither input is modified.
func Compose(customers, hubs dataframe.DataFrame) (*Composite, bool) {
	if customers.Nrow() == 0 || !loader.HasColumns(customers, models.ColLat, models.ColLong) {
		return nil, false
	}
	if hubs.Nrow() == 0 || !loader.HasColumns(hubs, models.ColHubLat, models.ColHubLong) {
		return nil, false
	}

	c := tagged(customers, models.ColLat, models.ColLong, models.PointCustomer)
	h := tagged(hubs, models.ColHubLat, models.ColHubLong, models.PointHub)
	combined := c.RBind(h)
	if combined.Err != nil {
		return nil, false
	}
	return &Composite{frame: combined}, true
}

// tagged copies the coordinate columns of df under the shared LAT/LONG names
// and adds a constant Type column.
func tagged(df dataframe.DataFrame, latCol, lonCol string, tag models.PointType) dataframe.DataFrame {
	lats := coordinates(df.Col(latCol))
	lons := coordinates(df.Col(lonCol))
	tags := make([]string, len(lats))
	for i := range tags {
		tags[i] = string(tag)
	}
	return dataframe.New(
		series.New(lats, series.Float, models.ColLat),
		series.New(lons, series.Float, models.ColLong),
		series.New(tags, series.String, models.ColType),
	)
}

func coordinates(s series.Series) []float64 {
	if s.Type() != series.String {
		return s.Float()
	}
	recs, nan := s.Records(), s.IsNaN()
	out := make([]float64, len(recs))
	for i, r := range recs {
		out[i] = math.NaN()
		if nan[i] {
			continue
		}
		if v, err := parseCoord(r); err == nil {
			out[i] = v
		}
	}
	return out
}

func parseCoord(val string) (float64, error) {
	// Replace comma with dot for decimal-comma locales
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseFloat(val, 64)
}

// Frame returns a copy of the combined frame.
func (c *Composite) Frame() dataframe.DataFrame { return c.frame.Copy() }

func (c *Composite) Len() int { return c.frame.Nrow() }

// Points lists every combined point in frame order, including ones whose
// coordinates failed to parse.
func (c *Composite) Points() []models.CombinedPoint {
	lats := c.frame.Col(models.ColLat).Float()
	lons := c.frame.Col(models.ColLong).Float()
	types := c.frame.Col(models.ColType).Records()
	pts := make([]models.CombinedPoint, len(lats))
	for i := range lats {
		pts[i] = models.CombinedPoint{
			Loc:  models.Coordinate{Lat: lats[i], Lon: lons[i]},
			Type: models.PointType(types[i]),
		}
	}
	return pts
}

// FeatureCollection renders the plottable points as GeoJSON with "type" and
// "color" properties.
func (c *Composite) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range c.Points() {
		if !p.Loc.Valid() {
			continue
		}
		f := geojson.NewFeature(orb.Point{p.Loc.Lon, p.Loc.Lat})
		f.Properties["type"] = string(p.Type)
		f.Properties["color"] = "#" + Colors[p.Type]
		fc.Append(f)
	}
	return fc
}

// Viewport is the initial map center and zoom level.
type Viewport struct {
	Center models.Coordinate
	Zoom   int
}

// Viewport centers on the bounding box of the plottable points. A zoom of zero
// or less is derived from the box diagonal.
func (c *Composite) Viewport(zoom int) Viewport {
	var mp orb.MultiPoint
	for _, p := range c.Points() {
		if p.Loc.Valid() {
			mp = append(mp, orb.Point{p.Loc.Lon, p.Loc.Lat})
		}
	}
	if len(mp) == 0 {
		if zoom <= 0 {
			zoom = 1
		}
		return Viewport{Zoom: zoom}
	}

	b := mp.Bound()
	center := b.Center()
	if zoom <= 0 {
		zoom = AutoZoom(calculator.HaversineKm(b.Min.Lat(), b.Min.Lon(), b.Max.Lat(), b.Max.Lon()))
	}
	return Viewport{Center: models.Coordinate{Lat: center.Lat(), Lon: center.Lon()}, Zoom: zoom}
}

const equatorKm = 40075.0

// AutoZoom picks a web-map zoom level that fits extentKm across the view.
func AutoZoom(extentKm float64) int {
	if extentKm <= 0 {
		return 14
	}
	z := int(math.Floor(math.Log2(equatorKm / extentKm)))
	if z < 1 {
		return 1
	}
	if z > 18 {
		return 18
	}
	return z
}
