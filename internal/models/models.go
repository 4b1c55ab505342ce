package models

import "math"

// Customer table columns. Every one of them is optional.
const (
	ColLat          = "LAT"
	ColLong         = "LONG"
	ColVisits       = "VISITS"
	ColResidence    = "RESIDENCE"
	ColHubName      = "HubName"
	ColHubDist      = "HubDist"
	ColSegmentation = "SEGMENTATION"
	ColGender       = "GENDER"
	ColEducation    = "EDUCATION"
)

// Hub table columns are lowercase.
const (
	ColHubLat  = "lat"
	ColHubLong = "long"
)

// ColType tags combined map points by their source table.
const ColType = "Type"

// ResidenceOwner is the RESIDENCE category counted as an owner.
const ResidenceOwner = "Owner"

type PointType string

const (
	PointCustomer PointType = "Customer"
	PointHub      PointType = "Hub"
)

type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether both components are finite numbers.
func (c Coordinate) Valid() bool {
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lon) && !math.IsInf(c.Lat, 0) && !math.IsInf(c.Lon, 0)
}

// CombinedPoint is a customer or hub location on the shared map.
type CombinedPoint struct {
	Loc  Coordinate
	Type PointType
}

type CategoryCount struct {
	Category string
	Count    int
}

// CountTable is a (category, count) table for one column. Column keeps the
// category label even when Rows is empty.
type CountTable struct {
	Column string
	Rows   []CategoryCount
}

func (t CountTable) Empty() bool { return len(t.Rows) == 0 }

// Total is the sum of all counts.
func (t CountTable) Total() int {
	n := 0
	for _, r := range t.Rows {
		n += r.Count
	}
	return n
}

// GroupValue is a summed measure for one category, used by bar charts.
type GroupValue struct {
	Group string
	Value float64
}

// SplitGroup holds per-split sums for one category, used by stacked bars.
type SplitGroup struct {
	Group  string
	Splits []GroupValue
}

type Summary struct {
	TotalRecords       int
	TotalVisits        float64
	OwnerPercentage    float64
	UniqueHubs         int
	AverageHubDistance float64
}
