package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestRegisterFieldErrors(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)

	resp := b.post("/register", url.Values{
		"username": {"x"},
		"email":    {"not-an-email"},
		"password": {"123"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	s := body(t, resp)
	for _, want := range []string{
		"Please enter a valid email address",
		"Password must be at least 6 characters",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing field error %q", want)
		}
	}
}

func TestLoginRequiresFields(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)

	resp := b.login("", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty form, got %d", resp.StatusCode)
	}
	if s := body(t, resp); !strings.Contains(s, "This field is required") {
		t.Fatalf("required message missing; body=%s", s)
	}
}

func TestCartRouteRejectsBadID(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)
	b.login("demo", "shopmate1")

	resp := b.post("/chat/cart/abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", resp.StatusCode)
	}
}

func TestTranscriptEscapesUserText(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)
	b.login("demo", "shopmate1")

	b.post("/chat/send", url.Values{"message": {"<script>alert(1)</script>"}})
	s := body(t, b.get("/chat"))
	if strings.Contains(s, "<script>alert(1)</script>") {
		t.Fatalf("found unescaped script tag in output")
	}
	if !strings.Contains(s, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", s)
	}
}

func TestThemeToggleIgnoresOffsiteNext(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)

	resp := b.post("/theme/toggle", url.Values{"next": {"//evil.example"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/chat" {
		t.Fatalf("expected fallback redirect, got %q", loc)
	}

	page := body(t, b.get("/login"))
	if !strings.Contains(page, `class="bg-gray-50 dark-theme"`) {
		t.Fatalf("theme should be dark after toggle")
	}
}
