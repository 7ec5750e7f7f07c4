package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikhailRaia/shortify/internal/clipboard"
	"github.com/MikhailRaia/shortify/internal/config"
	"github.com/MikhailRaia/shortify/internal/storage/file"
	"github.com/MikhailRaia/shortify/internal/storage/memory"
	"github.com/MikhailRaia/shortify/internal/ui"
)

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/short_url", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LongURL string `json:"long_url"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"short_code": "abc123", "long_url": req.LongURL})
	})
	mux.HandleFunc("/urls/abc123", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"short_code":"abc123","long_url":"https://example.com/very/long/path"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(apiURL string) *config.Config {
	cfg := config.Default()
	cfg.APIBaseURL = apiURL
	cfg.StorageBackend = config.StorageMemory
	cfg.ClipboardBackend = config.ClipboardMemory
	cfg.SessionSecret = "integration-test-secret"
	cfg.RequestTimeout = 2 * time.Second
	return cfg
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.URL.Path == "/" {
				return nil
			}
			return http.ErrUseLastResponse
		},
	}
}

func send(t *testing.T, c *http.Client, method, target, contentType, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, target, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestApp_Integration(t *testing.T) {
	api := newFakeAPI(t)
	clip := clipboard.NewMemory()
	app := newApp(testConfig(api.URL), memory.NewStorage(), clip)

	server := httptest.NewServer(app.Handler())
	defer server.Close()

	browser := newBrowser(t)

	resp, body := send(t, browser, http.MethodPost, server.URL+"/api/shorten", "application/json", `{"long_url":"https://example.com/very/long/path"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view ui.View
	require.NoError(t, json.Unmarshal([]byte(body), &view))
	require.NotNil(t, view.Result)
	assert.Equal(t, "http://localhost:8080/abc123", view.Result.ShortURL)

	resp, body = send(t, browser, http.MethodPost, server.URL+"/copy", "application/x-www-form-urlencoded", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Link copied!")
	assert.Equal(t, "http://localhost:8080/abc123", clip.Last())

	resp, _ = send(t, browser, http.MethodGet, server.URL+"/abc123", "", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://example.com/very/long/path", resp.Header.Get("Location"))

	resp, _ = send(t, newBrowser(t), http.MethodGet, server.URL+"/ping", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_HistorySurvivesRestart(t *testing.T) {
	api := newFakeAPI(t)
	path := filepath.Join(t.TempDir(), "storage.json")
	cfg := testConfig(api.URL)

	store, err := file.NewStorage(path)
	require.NoError(t, err)
	first := httptest.NewServer(newApp(cfg, store, clipboard.NewMemory()).Handler())

	browser := newBrowser(t)
	resp, _ := send(t, browser, http.MethodPost, first.URL+"/api/shorten", "application/json", `{"long_url":"https://example.com/very/long/path"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first.Close()

	reopened, err := file.NewStorage(path)
	require.NoError(t, err)
	second := httptest.NewServer(newApp(cfg, reopened, clipboard.NewMemory()).Handler())
	defer second.Close()

	// Cookies are scoped by host, so the session carries over to the new port.
	_, body := send(t, browser, http.MethodGet, second.URL+"/api/state", "", "")

	var view ui.View
	require.NoError(t, json.Unmarshal([]byte(body), &view))
	require.Len(t, view.History, 1)
	assert.Equal(t, "abc123", view.History[0].ShortCode)
}

func TestNewApp_StorageBackends(t *testing.T) {
	cfg := testConfig("http://localhost:8000/api/v1")

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, app.Handler())

	cfg.StorageBackend = "cassandra"
	_, err = NewApp(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig("http://localhost:8000/api/v1")
	cfg.ServerAddress = "127.0.0.1:0"
	app := newApp(cfg, memory.NewStorage(), clipboard.NewMemory())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCleanupPeriod(t *testing.T) {
	assert.Equal(t, time.Minute, cleanupPeriod(0))
	assert.Equal(t, time.Minute, cleanupPeriod(30*time.Minute))
	assert.Equal(t, 10*time.Second, cleanupPeriod(10*time.Second))
}

func TestNewClipboard(t *testing.T) {
	_, isMemory := newClipboard(config.ClipboardMemory).(*clipboard.Memory)
	assert.True(t, isMemory)

	_, isSystem := newClipboard(config.ClipboardSystem).(clipboard.System)
	assert.Equal(t, clipboard.Available(), isSystem)
}
