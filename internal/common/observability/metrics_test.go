package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordCall(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New("labportal-test", reg)
	require.NoError(t, err)
	t.Cleanup(func() { obs.Shutdown() })

	ctx := context.Background()
	obs.RecordCall(ctx, "get-form", "ok", 12*time.Millisecond)
	obs.RecordCall(ctx, "get-form", "ok", 30*time.Millisecond)
	obs.RecordCall(ctx, "login", "unauthorized", time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, mf := range families {
		assert.NotContains(t, mf.GetName(), ".", "family %q", mf.GetName())
		byName[mf.GetName()] = mf
	}

	callFamily, ok := byName["portal_api_calls_total"]
	require.True(t, ok, "families: %v", familyNames(families))
	var calls float64
	for _, m := range callFamily.GetMetric() {
		calls += m.GetCounter().GetValue()
	}
	assert.Equal(t, 3.0, calls)

	durationFamily, ok := byName["portal_api_duration_milliseconds"]
	require.True(t, ok, "families: %v", familyNames(families))
	var samples uint64
	for _, m := range durationFamily.GetMetric() {
		samples += m.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), samples)
}

func familyNames(families []*dto.MetricFamily) []string {
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	return names
}

func TestObservability_NilIsNoOp(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordCall(context.Background(), "get-form", "ok", time.Millisecond)
	})
	assert.NoError(t, obs.Shutdown())
	assert.NoError(t, (&Observability{}).Shutdown())
}
