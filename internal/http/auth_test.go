package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	html "github.com/gofiber/template/html/v2"
	"golang.org/x/crypto/bcrypt"

	"shopmate/internal/http/handlers"
	"shopmate/internal/repos"
	"shopmate/internal/services"
)

func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "shopmate1") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("shopmate1")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	// Minimal app with real login handler and per-route limiter
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)

	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(respLogin, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	post := func(user, pass string) *http.Response {
		form := strings.NewReader("csrf=" + csrfTok + "&username=" + user + "&password=" + pass)
		req := httptest.NewRequest("POST", "/login", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := post("demo", "wrongpass!"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}

	respGood := post("demo", "shopmate1")
	if respGood.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", respGood.StatusCode)
	}
	if loc := respGood.Header.Get("Location"); loc != "/chat" {
		t.Fatalf("expected redirect to /chat, got %q", loc)
	}

	// throttle after 2 attempts
	if resp := post("demo", "wrongpass!"); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestChatRequiresLogin(t *testing.T) {
	ta := newTestApp(t)
	resp, err := ta.app.Test(httptest.NewRequest("GET", "/chat", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestRegisterThenChat(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)

	resp := b.post("/register", url.Values{
		"username": {"shopper"},
		"email":    {"Shopper@Example.com"},
		"password": {"hunter22"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after register, got %d body=%s", resp.StatusCode, body(t, resp))
	}

	page := b.get("/chat")
	if page.StatusCode != http.StatusOK {
		t.Fatalf("expected chat page, got %d", page.StatusCode)
	}
	if s := body(t, page); !strings.Contains(s, "shopper") {
		t.Fatalf("nav should show the signed-in user; body=%s", s)
	}

	// Same username again from a fresh browser
	other := newBrowser(t, ta.app)
	dup := other.post("/register", url.Values{
		"username": {"shopper"},
		"email":    {"someone@example.com"},
		"password": {"hunter22"},
	})
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for taken username, got %d", dup.StatusCode)
	}
	if s := body(t, dup); !strings.Contains(s, "Username already exists") {
		t.Fatalf("conflict message missing; body=%s", s)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ta := newTestApp(t)
	b := newBrowser(t, ta.app)
	if resp := b.login("demo", "shopmate1"); resp.StatusCode != http.StatusFound {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
	if resp := b.get("/chat"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected chat page, got %d", resp.StatusCode)
	}

	resp := b.post("/logout", nil)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d", resp.StatusCode)
	}
	if n := ta.deps.WidgetHandler.Widgets.Len(); n != 0 {
		t.Fatalf("widget should be dropped on logout, %d left", n)
	}
	if resp := b.get("/chat"); resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after logout, got %d", resp.StatusCode)
	}
}
