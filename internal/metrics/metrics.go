package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custdir_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	DBQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custdir_db_queries_total",
			Help: "Customer queries by query name and outcome",
		},
		[]string{"query", "outcome"}, // list_customers|get_customer , ok|error
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "custdir_db_query_duration_seconds",
			Help:    "Customer query latency including connection acquisition",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)
)

var registerOnce sync.Once

// MustRegister registers the collectors with the default registerer once; later calls are no-ops.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.DefaultRegisterer.MustRegister(
			HTTPRequestsTotal,
			DBQueriesTotal,
			DBQueryDuration,
		)
	})
}

// RegisterDBStats exposes connection pool statistics of db.
func RegisterDBStats(r prometheus.Registerer, db *sql.DB) error {
	return r.Register(collectors.NewDBStatsCollector(db, "custdir"))
}

// ObserveQuery records one finished gateway call.
func ObserveQuery(query string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DBQueriesTotal.WithLabelValues(query, outcome).Inc()
	DBQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
