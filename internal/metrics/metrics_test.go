package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.PageViews.Inc()
	m.TableRows.WithLabelValues("customers").Set(42)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageViews))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dashboard_page_views_total 1")
	assert.Contains(t, string(body), `dashboard_table_rows{table="customers"} 42`)
}

func TestNewIsIndependent(t *testing.T) {
	a, b := New(), New()
	a.PageViews.Inc()
	assert.Zero(t, testutil.ToFloat64(b.PageViews))
}
