package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard collectors, registered on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	PageViews   prometheus.Counter
	NotModified prometheus.Counter
	TableRows   *prometheus.GaugeVec
	MapPoints   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PageViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_page_views_total",
			Help: "Total number of dashboard page responses",
		}),
		NotModified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_page_not_modified_total",
			Help: "Total number of page requests answered with 304",
		}),
		TableRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dashboard_table_rows",
			Help: "Rows loaded per input table",
		}, []string{"table"}),
		MapPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_map_points",
			Help: "Points plotted on the map",
		}),
	}
	m.registry.MustRegister(m.PageViews, m.NotModified, m.TableRows, m.MapPoints)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
