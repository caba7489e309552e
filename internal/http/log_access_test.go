package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIAccessDeniedLogs(t *testing.T) {
	ta := newTestApp(t)

	var resp *http.Response
	entries := captureLogs(t, func() {
		var err error
		resp, err = ta.app.Test(apiRequest("POST", "/api/chat", "sid-nobody", map[string]string{"message": "hi"}))
		if err != nil {
			t.Fatal(err)
		}
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if _, ok := findAction(entries, "api.unauthenticated"); !ok {
		t.Fatalf("expected api.unauthenticated log")
	}
}

func TestCSRFFailureLogged(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)
	b.login("demo", "shopmate1")

	var resp *http.Response
	entries := captureLogs(t, func() {
		req := httptest.NewRequest("POST", "/chat/clear", nil)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp = b.do(req)
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf field, got %d", resp.StatusCode)
	}
	if _, ok := findAction(entries, "csrf.fail"); !ok {
		t.Fatalf("expected csrf.fail log")
	}
}

func TestRequestLinesCarrySession(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)

	entries := captureLogs(t, func() { b.login("demo", "shopmate1") })
	e, ok := findAction(entries, "auth.login.success")
	if !ok {
		t.Fatalf("auth.login.success log not found")
	}
	if e.SID != b.sid {
		t.Fatalf("expected sid %q on the line, got %q", b.sid, e.SID)
	}
	if e.ReqID == "" {
		t.Fatalf("expected request id on the line")
	}
}
