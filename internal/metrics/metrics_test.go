package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuery(t *testing.T) {
	okBefore := testutil.ToFloat64(DBQueriesTotal.WithLabelValues("probe_query", "ok"))
	errBefore := testutil.ToFloat64(DBQueriesTotal.WithLabelValues("probe_query", "error"))

	ObserveQuery("probe_query", time.Now(), nil)
	ObserveQuery("probe_query", time.Now(), errors.New("boom"))
	ObserveQuery("probe_query", time.Now(), errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(DBQueriesTotal.WithLabelValues("probe_query", "ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(DBQueriesTotal.WithLabelValues("probe_query", "error")))
}

func TestMustRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		MustRegister()
		MustRegister()
	})

	var already prometheus.AlreadyRegisteredError
	err := prometheus.DefaultRegisterer.Register(HTTPRequestsTotal)
	require.ErrorAs(t, err, &already)
	assert.Same(t, HTTPRequestsTotal, already.ExistingCollector)
}
