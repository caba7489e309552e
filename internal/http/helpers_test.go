package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"shopmate/internal/config"
	"shopmate/internal/http/handlers"
	"shopmate/internal/repos"
	"shopmate/internal/shopclient"
)

// testApp is the full application with the widget backend pointed at a
// loopback server that serves the same app.
type testApp struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
	srv  *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Default()
	cfg.DBDSN = ":memory:"
	cfg.RequestTimeout = 5 * time.Second
	cfg.DraftDelay = 10 * time.Millisecond

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var handler http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	deps := handlers.NewDeps(db, cfg, shopclient.New(srv.URL, cfg.RequestTimeout))
	app := handlers.NewApp(deps, html.New("../../web/templates", ".html"))
	handler = adaptor.FiberApp(app)

	return &testApp{app: app, db: db, deps: deps, srv: srv}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// browser keeps the sid and csrf cookies across form posts.
type browser struct {
	t    *testing.T
	app  *fiber.App
	sid  string
	csrf string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	t.Helper()
	b := &browser{t: t, app: app}
	resp := b.get("/login")
	if b.csrf == "" {
		t.Fatalf("csrf token missing (status %d)", resp.StatusCode)
	}
	return b
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	if b.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: b.sid})
	}
	if b.csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: b.csrf})
	}
	resp, err := b.app.Test(req, 10000)
	if err != nil {
		b.t.Fatal(err)
	}
	if sid := extractCookie(resp, "sid"); sid != "" {
		b.sid = sid
	}
	if tok := extractCookie(resp, "csrf_"); tok != "" {
		b.csrf = tok
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest("GET", path, nil))
}

func (b *browser) post(path string, form url.Values) *http.Response {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", b.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(username, password string) *http.Response {
	return b.post("/login", url.Values{"username": {username}, "password": {password}})
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

// apiRequest builds a JSON request carrying the session header.
func apiRequest(method, path, sid string, payload any) *http.Request {
	var rd io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.Header.Set(shopclient.SessionHeader, sid)
	}
	return req
}

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	SID    string                 `json:"sid"`
	ReqID  string                 `json:"req_id"`
	Fields map[string]interface{} `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs collects event lines by temporarily replacing the standard
// logger output, which the event log writes through.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
