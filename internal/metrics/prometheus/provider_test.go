package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetricsProvider(t *testing.T) {
	p := NewPrometheusMetricsProvider()

	before := testutil.ToFloat64(FollowOperationsTotal.WithLabelValues("follow", "true"))
	p.IncrementFollowOperations("follow", true)
	assert.Equal(t, before+1, testutil.ToFloat64(FollowOperationsTotal.WithLabelValues("follow", "true")))

	p.SetServiceHealth(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(ServiceHealth))
	p.SetServiceHealth(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(ServiceHealth))

	hitsBefore := testutil.ToFloat64(CacheHitsTotal)
	p.IncrementCacheHits()
	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(CacheHitsTotal))

	p.RecordDatabaseQueryDuration("user_get_by_id", 5*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(DatabaseQueryDuration, "database_query_duration_seconds"))
}
