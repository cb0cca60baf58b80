package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricofy/loco-sync/internal/config"
	"github.com/pricofy/loco-sync/internal/domain"
	"github.com/pricofy/loco-sync/internal/handler"
	"github.com/pricofy/loco-sync/internal/logging"
	"github.com/pricofy/loco-sync/internal/loco"
)

func TestIsWarmupEvent(t *testing.T) {
	tests := []struct {
		name            string
		event           string
		expectWarmup    bool
		expectedConcurr int
	}{
		{name: "warmup without concurrency", event: `{"source":"warmup"}`, expectWarmup: true},
		{name: "warmup with concurrency", event: `{"source":"warmup","concurrency":3}`, expectWarmup: true, expectedConcurr: 3},
		{name: "negative concurrency clamps", event: `{"source":"warmup","concurrency":-2}`, expectWarmup: true},
		{name: "other source", event: `{"source":"aws.events"}`},
		{name: "sync request", event: `{"locale":"fr"}`},
		{name: "not an object", event: `"warmup"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warmup, ok := IsWarmupEvent(json.RawMessage(tt.event))
			assert.Equal(t, tt.expectWarmup, ok)
			if tt.expectWarmup {
				require.NotNil(t, warmup)
				assert.Equal(t, tt.expectedConcurr, warmup.Concurrency)
			}
		})
	}
}

func TestHandleWarmup_NoFanOut(t *testing.T) {
	resp, err := HandleWarmup(context.Background(), &WarmupEvent{Source: WarmupSource})
	require.NoError(t, err)
	assert.Equal(t, &WarmupResponse{Status: "warm", InstancesWarmed: 1}, resp)
}

func TestApplyOverrides(t *testing.T) {
	cfg := &config.Config{Token: "abc", Locale: "en", Filter: []string{"web"}, Fallback: "en"}

	applyOverrides(cfg, domain.SyncRequest{Locale: "fr"})
	assert.Equal(t, "fr", cfg.Locale)
	assert.Equal(t, []string{"web"}, cfg.Filter)
	assert.Equal(t, "en", cfg.Fallback)

	applyOverrides(cfg, domain.SyncRequest{Filter: []string{"docs"}, Fallback: "de"})
	assert.Equal(t, "fr", cfg.Locale)
	assert.Equal(t, []string{"docs"}, cfg.Filter)
	assert.Equal(t, "de", cfg.Fallback)
}

func TestHandleRequest_MissingToken(t *testing.T) {
	t.Setenv("LOCO_TOKEN", "")

	out, err := handleRequest(context.Background(), json.RawMessage(`{"locale":"fr"}`))
	require.NoError(t, err)

	resp, ok := out.(*domain.SyncResponse)
	require.True(t, ok)
	assert.Contains(t, resp.Error, "invalid config")
}

func TestHandleRequest_BadEvent(t *testing.T) {
	_, err := handleRequest(context.Background(), json.RawMessage(`{"locale":`))
	assert.Error(t, err)
}

func TestHandleRequest_FetchFailureReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	// Point the destination somewhere harmless; the export never reaches it.
	t.Setenv("LOCO_TOKEN", "abc")
	t.Setenv(srcDirEnv, t.TempDir())

	client := loco.NewClient("abc", loco.WithEndpoint(srv.URL), loco.WithLogger(logging.Discard()))
	resp := runSync(context.Background(), domain.SyncRequest{}, handler.WithFetcher(client))
	assert.Contains(t, resp.Error, "status 403")
	assert.Empty(t, resp.Locales)
}
