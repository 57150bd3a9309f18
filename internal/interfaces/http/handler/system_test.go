package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/taxprep/backend/internal/testutil"
)

type pinger func() error

func (p pinger) Ping() error { return p() }

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name     string
		ping     error
		status   int
		state    string
		database string
	}{
		{"database up", nil, http.StatusOK, "ok", "up"},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, "degraded", "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewSystemHandler(pinger(func() error { return tt.ping }), "1.2.3").Health)

			w := testutil.Do(t, router, testutil.Request{Path: "/health"})
			assert.Equal(t, tt.status, w.Code)
			env := testutil.DecodeEnvelope(t, w)
			assert.Equal(t, tt.ping == nil, env.Success)
			health := testutil.DataAs[HealthResponse](t, env)
			assert.Equal(t, tt.state, health.Status)
			assert.Equal(t, tt.database, health.Database)
			assert.Equal(t, "1.2.3", health.Version)
		})
	}
}
