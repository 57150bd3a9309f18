package telemetry_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{ServiceName: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestStartServiceSpan_NoopProvider(t *testing.T) {
	ctx, span := telemetry.StartServiceSpan(context.Background(), "invoice", "send", "invoice_number", "INV-2025-0001", "items", 2)
	defer span.End()

	telemetry.RecordError(span, errors.New("boom"))
	assert.Equal(t, "", telemetry.TraceID(ctx))
}

func TestHTTPMetrics(t *testing.T) {
	m := telemetry.NewHTTPMetrics("taxprep")

	done := m.Begin()
	done("GET", "/api/v1/public/faqs", 200)
	m.Begin()("GET", "", 404)
	m.CacheHit(true)
	m.CacheHit(false)
	m.CacheHit(false)
	m.JobRun("invoice_overdue_sweep", nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `taxprep_http_requests_total{method="GET",route="/api/v1/public/faqs",status="200"} 1`)
	assert.Contains(t, string(body), `route="unmatched"`)
	assert.Contains(t, string(body), `taxprep_content_cache_results_total{result="miss"} 2`)
	assert.Contains(t, string(body), `taxprep_scheduler_job_runs_total{job="invoice_overdue_sweep",outcome="success"} 1`)

	n, err := testutil.GatherAndCount(m.Registry(), "taxprep_http_requests_in_flight")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
