package metrics_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/cartridge/internal/metrics"
	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Hooks(t *testing.T) {
	c := metrics.New()

	var seen int
	hooks := c.Hooks(domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.LoadEvent) { seen++ },
	})

	ctx := context.Background()
	hooks.OnFetch(ctx, &domain.LoadEvent{EventBase: domain.EventBase{Type: domain.EventFetch}, Duration: time.Millisecond})
	hooks.OnLoad(ctx, &domain.LoadEvent{EventBase: domain.EventBase{Type: domain.EventLoad}, Err: domain.ErrNotFound})
	hooks.OnLoad(ctx, &domain.LoadEvent{EventBase: domain.EventBase{Type: domain.EventLoad}, Err: errors.New("boom")})

	assert.Equal(t, 2, seen)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `cartridge_load_stages_total{outcome="ok",stage="fetch"} 1`)
	assert.Contains(t, body, `cartridge_load_stages_total{outcome="not_found",stage="load"} 1`)
	assert.Contains(t, body, `cartridge_load_stages_total{outcome="error",stage="load"} 1`)
	assert.Contains(t, body, `cartridge_load_stage_duration_seconds_count{stage="load"} 2`)

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2)
}
