package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/pwrstat-exporter/internal/config"
	"github.com/Guliveer/pwrstat-exporter/internal/exporter"
)

const exampleReport = "Utility Voltage..... 120 V\n" +
	"   Output Voltage..... 120 V\n" +
	"   Battery Capacity.... 100 %\n" +
	"   Remaining Runtime... 45 min.\n" +
	"   Load................ 60 Watt(25 %)\n"

type fakeCollector struct {
	text string
	err  error
}

func (f *fakeCollector) Name() string { return "fake" }

func (f *fakeCollector) Collect(ctx context.Context) (string, error) { return f.text, f.err }

func (f *fakeCollector) IsAvailable() bool { return true }

func newServer(t *testing.T, adapter, report string) *Server {
	t.Helper()
	cfg := config.DefaultConfig().Server
	cfg.Adapter = adapter
	srv, err := New(cfg, exporter.New(&fakeCollector{text: report}, nil), nil)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMetrics_TextAdapter(t *testing.T) {
	rec := get(t, newServer(t, config.AdapterText, exampleReport).Handler(), http.MethodGet, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.True(t, strings.HasPrefix(rec.Body.String(),
		"# HELP ups_input_voltage Utility voltage\n# TYPE ups_input_voltage gauge\nups_input_voltage 120\n"))
	assert.True(t, strings.HasSuffix(rec.Body.String(), "ups_load_percent 25\n"))
	assert.Equal(t, 18, strings.Count(rec.Body.String(), "\n"))
}

func TestMetrics_RegistryAdapter(t *testing.T) {
	rec := get(t, newServer(t, config.AdapterRegistry, exampleReport).Handler(), http.MethodGet, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	body := rec.Body.String()
	for _, line := range []string{
		"ups_input_voltage 120",
		"ups_output_voltage 120",
		"ups_battery_capacity 100",
		"ups_remaining_runtime 45",
		"ups_load_watts 60",
		"ups_load_percent 25",
		"# TYPE ups_load_percent gauge",
	} {
		assert.Contains(t, body, line+"\n")
	}
}

func TestMetrics_PipelineFailure(t *testing.T) {
	for _, adapter := range []string{config.AdapterText, config.AdapterRegistry} {
		t.Run(adapter, func(t *testing.T) {
			rec := get(t, newServer(t, adapter, "State........ Lost Communication\n").Handler(), http.MethodGet, "/metrics")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.NotContains(t, rec.Body.String(), "# TYPE")
		})
	}
}

func TestMetrics_TextAdapterErrorBody(t *testing.T) {
	rec := get(t, newServer(t, config.AdapterText, "").Handler(), http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "error: parse: "), rec.Body.String())
}

func TestMetrics_MethodNotAllowed(t *testing.T) {
	rec := get(t, newServer(t, config.AdapterText, exampleReport).Handler(), http.MethodPost, "/metrics")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)
}

func TestAuxiliaryRoutes(t *testing.T) {
	h := newServer(t, config.AdapterText, exampleReport).Handler()

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/", http.StatusOK, `href="/metrics"`},
		{"/healthz", http.StatusOK, "ok"},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, http.MethodGet, tt.path)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestNew_UnknownAdapter(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.Adapter = "hyper"
	_, err := New(cfg, exporter.New(&fakeCollector{}, nil), nil)
	assert.Error(t, err)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv := newServer(t, config.AdapterText, exampleReport)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ups_load_watts 60\n")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
