package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/promptforge/backdrop/component"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestCollectorExportsObserverEvents(t *testing.T) {
	c := New()
	now := time.Now()

	c.Frame("matrix", now)
	c.Frame("matrix", now)
	c.Frame("narrative", now)
	c.GlitchStarted(3, now)
	c.GlitchStarted(4, now)
	c.GlitchEnded(3, now)
	c.QuotePhase("q", "text", component.PhaseTyping, now)
	c.ObserveTick(2*time.Millisecond, 7)
	c.ObserveLayers(95, map[string]bool{"matrix": true, "narrative": false})
	c.ConfigReloaded(nil)
	c.ConfigReloaded(errors.New("bad"))

	body := scrape(t, Router(c, nil))
	assert.Contains(t, body, `backdrop_layer_frames_total{layer="matrix"} 2`)
	assert.Contains(t, body, `backdrop_layer_frames_total{layer="narrative"} 1`)
	assert.Contains(t, body, `backdrop_matrix_glitches_total 2`)
	assert.Contains(t, body, `backdrop_matrix_glitches_active 1`)
	assert.Contains(t, body, `backdrop_narrative_phase_transitions_total{phase="typing"} 1`)
	assert.Contains(t, body, `backdrop_scheduler_pending_callbacks 7`)
	assert.Contains(t, body, `backdrop_scheduler_tick_duration_seconds_count 1`)
	assert.Contains(t, body, `backdrop_matrix_tokens 95`)
	assert.Contains(t, body, `backdrop_layer_mounted{layer="matrix"} 1`)
	assert.Contains(t, body, `backdrop_layer_mounted{layer="narrative"} 0`)
	assert.Contains(t, body, `backdrop_config_reloads_total{result="error"} 1`)
	assert.Contains(t, body, `go_goroutines`)
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Frame("matrix", time.Now())

	assert.Contains(t, scrape(t, Router(a, nil)), `backdrop_layer_frames_total{layer="matrix"} 1`)
	assert.NotContains(t, scrape(t, Router(b, nil)), `backdrop_layer_frames_total{layer="matrix"}`)
}

func TestHealthz(t *testing.T) {
	healthy := true
	h := Router(New(), func() bool { return healthy })

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok\n", rr.Body.String())

	healthy = false
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, Router(New(), nil), zerolog.Nop()) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "ok\n"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeReportsListenError(t *testing.T) {
	err := Serve(context.Background(), "not-an-address", Router(New(), nil), zerolog.Nop())
	assert.Error(t, err)
}
