package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestLoginRateLimit(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)

	for i := 0; i < 6; i++ {
		resp := b.post("/login", url.Values{"username": {"demo"}, "password": {"wrongpass"}})
		if i < 5 && resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 5 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}
}

func TestAPILoginRateLimit(t *testing.T) {
	ta := newTestApp(t)
	for i := 0; i < 6; i++ {
		req := apiRequest("POST", "/api/login", "sid-rate", map[string]string{"username": "demo", "password": "nope"})
		resp, err := ta.app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if i < 5 && resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, resp.StatusCode)
		}
		if i == 5 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}
}

func TestBodySizeLimit(t *testing.T) {
	ta := newTestApp(t)

	// Oversized body (>1MiB)
	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := ta.app.Test(req)
	// Fiber returns an error instead of a response when body too large; treat that as pass
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(raw))
	}
}

func TestHealthAndMetricsSkipLimiter(t *testing.T) {
	ta := newTestApp(t)
	for i := 0; i < 130; i++ {
		resp, err := ta.app.Test(httptest.NewRequest("GET", "/healthz", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("healthz %d: got %d", i, resp.StatusCode)
		}
	}

	resp, err := ta.app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: got %d", resp.StatusCode)
	}
	if s := body(t, resp); !strings.Contains(s, "go_goroutines") {
		t.Fatalf("metrics output missing runtime collectors")
	}
}
