package store

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/peerexam/internal/queryir"
)

func TestMetrics_CountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	s := createTestStore(t, WithMetrics(m))
	ctx := context.Background()

	_, err := s.Insert(ctx, "users", userFields(1, "A"))
	require.NoError(t, err)
	_, err = s.Insert(ctx, "users", userFields(1, "A"))
	require.Error(t, err)
	_, _, err = s.FindOne(ctx, "users", queryir.EqInt("userid", 1))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("users", opInsert, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("users", opInsert, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("users", opFindOne, "ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		var err error
		m.observe("users", opCount, time.Now(), &err)
	})
}
