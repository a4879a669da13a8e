package router_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/karanjoshi/friends-map-api/internal/config"
	"github.com/karanjoshi/friends-map-api/internal/http/router"
	"github.com/karanjoshi/friends-map-api/internal/storage/sqlite"
	"github.com/karanjoshi/friends-map-api/internal/types"
)

// panicStore satisfies storage.Storage but blows up on every data
// method, standing in for a handler bug.
type panicStore struct{}

func (panicStore) CreateFriend(types.CreateFriendRequest) (types.Friend, error) {
	panic("broken handler path")
}
func (panicStore) GetFriends() ([]types.Friend, error) { panic("broken handler path") }
func (panicStore) DeleteFriendByID(int64) error        { panic("broken handler path") }
func (panicStore) DeleteAllFriends() (int64, error)    { panic("broken handler path") }
func (panicStore) GetStats() (types.Stats, error)      { panic("broken handler path") }
func (panicStore) Close() error                        { return nil }

// newTestServer builds the full application handler with a throwaway
// database and a temp static dir holding both entry-point pages.
func newTestServer(t *testing.T, adminToken string) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	pages := map[string]string{
		"index.html": "<html><body>public map</body></html>",
		"admin.html": "<html><body>admin panel</body></html>",
		"app.js":     "// map script",
	}
	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(staticDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cfg := &config.Config{
		Env:         "dev",
		StoragePath: filepath.Join(t.TempDir(), "test.db"),
		StaticDir:   staticDir,
		AdminToken:  adminToken,
	}

	store, err := sqlite.New(cfg)
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return router.New(log, cfg, store)
}

func get(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStaticEntryPoints(t *testing.T) {
	h := newTestServer(t, "")

	tests := []struct {
		path string
		want string
	}{
		{"/", "public map"},
		{"/admin", "admin panel"},
		{"/static/app.js", "map script"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s status = %d, want 200", tt.path, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("GET %s body = %q, want it to contain %q",
					tt.path, rec.Body.String(), tt.want)
			}
		})
	}
}

func TestAPIFallback_JSON404(t *testing.T) {
	h := newTestServer(t, "")

	rec := get(t, h, "/api/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("404 body is not JSON: %v", err)
	}
	if resp["status"] != "error" {
		t.Errorf("status field = %q, want error", resp["status"])
	}
}

func TestPanicRecovery_JSON500(t *testing.T) {
	cfg := &config.Config{
		Env:       "dev",
		StaticDir: t.TempDir(),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := router.New(log, cfg, panicStore{})

	rec := get(t, h, "/api/friends", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	// A panicking handler answers with the same envelope as every
	// other failure, and never leaks the panic value to the client.
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("500 body is not JSON: %v (%q)", err, rec.Body.String())
	}
	if resp["status"] != "error" {
		t.Errorf("status field = %q, want error", resp["status"])
	}
	if resp["error"] != "internal server error" {
		t.Errorf("error field = %q, want internal server error", resp["error"])
	}
	if strings.Contains(rec.Body.String(), "broken handler path") {
		t.Errorf("panic value leaked to the client: %q", rec.Body.String())
	}
}

func TestAdminRoutes_OpenWithoutToken(t *testing.T) {
	h := newTestServer(t, "")

	// No token configured: the privileged list is reachable directly.
	rec := get(t, h, "/api/friends", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/friends status = %d, want 200", rec.Code)
	}
}

func TestAdminRoutes_TokenGating(t *testing.T) {
	h := newTestServer(t, "hunter2")

	privileged := []string{"/api/friends", "/api/stats"}
	for _, path := range privileged {
		rec := get(t, h, path, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token status = %d, want 401", path, rec.Code)
		}

		rec = get(t, h, path, map[string]string{"Authorization": "Bearer wrong"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s with wrong token status = %d, want 401", path, rec.Code)
		}

		rec = get(t, h, path, map[string]string{"Authorization": "Bearer hunter2"})
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s with token status = %d, want 200", path, rec.Code)
		}
	}

	// The public projection is never gated.
	rec := get(t, h, "/api/friends/public", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/friends/public status = %d, want 200", rec.Code)
	}

	// Neither are the static pages.
	rec = get(t, h, "/admin", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /admin status = %d, want 200", rec.Code)
	}
}
