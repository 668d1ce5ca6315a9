package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"bellashop/internal/config"
	"bellashop/internal/http/handlers"
	"bellashop/internal/repos"
)

const (
	adminEmail = "bella888@gmail.com"
	adminPass  = "s3cret-pass"
)

type testEnv struct {
	app   *fiber.App
	deps  *handlers.Deps
	media string
	token string
}

func newTestEnv(t *testing.T, opts handlers.AppOptions) *testEnv {
	t.Helper()
	cfg := config.Config{
		DBDSN:       ":memory:",
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
		CORSOrigins: "*",
		BodyLimitMB: 1,
		MaxUploadMB: 1,
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := repos.EnsureAdmin(context.Background(), db, "Bella", adminEmail, adminPass, time.Now()); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	dir := t.TempDir()
	store, err := newStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	deps := handlers.NewDeps(db, cfg, repos.NopHistory(), store)
	_, tok, err := deps.Auth.Login(context.Background(), adminEmail, adminPass)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return &testEnv{app: handlers.NewApp(cfg, deps, opts), deps: deps, media: dir, token: tok}
}

func quietOpts() handlers.AppOptions {
	return handlers.AppOptions{RateMax: 1000, LoginRateMax: 100}
}

// do sends a request; body may be nil, a string (sent as JSON) or a *bytes.Buffer with contentType.
func (e *testEnv) do(t *testing.T, method, path string, body any, contentType string, auth bool) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case string:
		r = strings.NewReader(b)
		if contentType == "" {
			contentType = fiber.MIMEApplicationJSON
		}
	case *bytes.Buffer:
		r = b
	}
	req := httptest.NewRequest(method, path, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return v
}

type logEntry struct {
	Level   string         `json:"level"`
	Action  string         `json:"action"`
	AdminID int64          `json:"admin_id"`
	Err     string         `json:"err"`
	Fields  map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
