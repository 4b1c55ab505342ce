package calculator

import (
	"math"
	"sort"
	"strconv"

	"hub-dashboard/internal/loader"
	"hub-dashboard/internal/models"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Aggregator derives dashboard statistics from the customer table. Every
// statistic needs its column present and at least one row; otherwise it falls
// back to zero or an empty table.
type Aggregator struct {
	df dataframe.DataFrame
}

func NewAggregator(customers dataframe.DataFrame) *Aggregator {
	return &Aggregator{df: customers}
}

// scalarStat maps a column to the reduction computed over its series.
type scalarStat struct {
	column  string
	compute func(series.Series) float64
}

var (
	statTotalVisits  = scalarStat{models.ColVisits, sumValues}
	statOwnerShare   = scalarStat{models.ColResidence, percentEqual(models.ResidenceOwner)}
	statUniqueHubs   = scalarStat{models.ColHubName, distinctValues}
	statMeanDistance = scalarStat{models.ColHubDist, meanValues}
)

func (a *Aggregator) column(name string) (series.Series, bool) {
	if a.df.Nrow() == 0 || !loader.HasColumns(a.df, name) {
		return series.Series{}, false
	}
	return a.df.Col(name), true
}

func (a *Aggregator) lookup(st scalarStat) float64 {
	s, ok := a.column(st.column)
	if !ok {
		return 0
	}
	return st.compute(s)
}

func (a *Aggregator) TotalRecords() int { return a.df.Nrow() }

func (a *Aggregator) TotalVisits() float64 { return a.lookup(statTotalVisits) }

// ResidenceOwnerPercentage is the share of non-null RESIDENCE values equal to
// "Owner", in the range [0, 100].
func (a *Aggregator) ResidenceOwnerPercentage() float64 { return a.lookup(statOwnerShare) }

func (a *Aggregator) UniqueHubCount() int { return int(a.lookup(statUniqueHubs)) }

func (a *Aggregator) AverageHubDistance() float64 { return a.lookup(statMeanDistance) }

func (a *Aggregator) Summary() models.Summary {
	return models.Summary{
		TotalRecords:       a.TotalRecords(),
		TotalVisits:        a.TotalVisits(),
		OwnerPercentage:    a.ResidenceOwnerPercentage(),
		UniqueHubs:         a.UniqueHubCount(),
		AverageHubDistance: a.AverageHubDistance(),
	}
}

// CountsBy counts rows per non-null category of column, largest first. Equal
// counts keep category order. A missing column gives an empty table that
// still names the column.
func (a *Aggregator) CountsBy(column string) models.CountTable {
	table := models.CountTable{Column: column}
	s, ok := a.column(column)
	if !ok {
		return table
	}

	counts := make(map[string]int)
	var order []string
	for _, key := range nonNullRecords(s) {
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}
	sort.Slice(order, func(i, j int) bool { return lessCategory(order[i], order[j]) })

	table.Rows = make([]models.CategoryCount, 0, len(order))
	for _, key := range order {
		table.Rows = append(table.Rows, models.CategoryCount{Category: key, Count: counts[key]})
	}
	sort.SliceStable(table.Rows, func(i, j int) bool { return table.Rows[i].Count > table.Rows[j].Count })
	return table
}

// SumBy sums value per group in first-seen group order. Rows with a null
// group are dropped. Returns nil when either column is unavailable.
func (a *Aggregator) SumBy(group, value string) []models.GroupValue {
	g, ok := a.column(group)
	if !ok {
		return nil
	}
	v, ok := a.column(value)
	if !ok {
		return nil
	}

	keys, gNaN := labels(g), g.IsNaN()
	vals := v.Float()
	idx := make(map[string]int)
	var out []models.GroupValue
	for i, key := range keys {
		if gNaN[i] {
			continue
		}
		pos, seen := idx[key]
		if !seen {
			pos = len(out)
			idx[key] = pos
			out = append(out, models.GroupValue{Group: key})
		}
		if finite(vals[i]) {
			out[pos].Value += vals[i]
		}
	}
	return out
}

// SumBySplit is SumBy with each group further split by a second category.
// Every group lists every split, in first-seen split order.
func (a *Aggregator) SumBySplit(group, split, value string) []models.SplitGroup {
	g, ok := a.column(group)
	if !ok {
		return nil
	}
	sp, ok := a.column(split)
	if !ok {
		return nil
	}
	v, ok := a.column(value)
	if !ok {
		return nil
	}

	gKeys, gNaN := labels(g), g.IsNaN()
	sKeys, sNaN := labels(sp), sp.IsNaN()
	vals := v.Float()

	groupIdx := make(map[string]int)
	splitIdx := make(map[string]int)
	var groups, splits []string
	sums := make(map[[2]int]float64)
	for i := range gKeys {
		if gNaN[i] || sNaN[i] {
			continue
		}
		gi, seen := groupIdx[gKeys[i]]
		if !seen {
			gi = len(groups)
			groupIdx[gKeys[i]] = gi
			groups = append(groups, gKeys[i])
		}
		si, seen := splitIdx[sKeys[i]]
		if !seen {
			si = len(splits)
			splitIdx[sKeys[i]] = si
			splits = append(splits, sKeys[i])
		}
		if finite(vals[i]) {
			sums[[2]int{gi, si}] += vals[i]
		}
	}
	if len(groups) == 0 {
		return nil
	}

	out := make([]models.SplitGroup, len(groups))
	for gi, name := range groups {
		out[gi] = models.SplitGroup{Group: name, Splits: make([]models.GroupValue, len(splits))}
		for si, sname := range splits {
			out[gi].Splits[si] = models.GroupValue{Group: sname, Value: sums[[2]int{gi, si}]}
		}
	}
	return out
}

func sumValues(s series.Series) float64 {
	var total float64
	for _, v := range s.Float() {
		if finite(v) {
			total += v
		}
	}
	return total
}

func meanValues(s series.Series) float64 {
	var (
		total float64
		n     int
	)
	for _, v := range s.Float() {
		if finite(v) {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func distinctValues(s series.Series) float64 {
	seen := make(map[string]struct{})
	for _, v := range nonNullRecords(s) {
		seen[v] = struct{}{}
	}
	return float64(len(seen))
}

func percentEqual(category string) func(series.Series) float64 {
	return func(s series.Series) float64 {
		vals := nonNullRecords(s)
		if len(vals) == 0 {
			return 0
		}
		hits := 0
		for _, v := range vals {
			if v == category {
				hits++
			}
		}
		return float64(hits) / float64(len(vals)) * 100
	}
}

// labels renders category cells as text. Float columns print in shortest
// form ("1", "2.5") rather than gota's fixed six decimals.
func labels(s series.Series) []string {
	if s.Type() != series.Float {
		return s.Records()
	}
	vals := s.Float()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

func nonNullRecords(s series.Series) []string {
	recs, nan := labels(s), s.IsNaN()
	out := make([]string, 0, len(recs))
	for i, r := range recs {
		if !nan[i] {
			out = append(out, r)
		}
	}
	return out
}

// lessCategory puts numeric labels first, ordered by value, then the rest as text.
func lessCategory(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
