package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmate/internal/shopclient"
)

// apiSession signs a fresh session in through the JSON login endpoint.
func apiSession(t *testing.T, ta *testApp, sid string) {
	t.Helper()
	resp, err := ta.app.Test(apiRequest("POST", "/api/login", sid, map[string]string{"username": "demo", "password": "shopmate1"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPIRequiresSession(t *testing.T) {
	ta := newTestApp(t)
	for _, r := range []struct{ method, path string }{
		{"POST", "/api/chat"},
		{"GET", "/api/chat-history"},
		{"POST", "/api/clear-chat"},
		{"POST", "/api/add-to-cart"},
	} {
		resp, err := ta.app.Test(apiRequest(r.method, r.path, "", map[string]any{}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, r.path)
		var out map[string]string
		decode(t, resp, &out)
		assert.Equal(t, "Not authenticated", out["error"], r.path)
	}
}

func TestAPILoginNeedsSession(t *testing.T) {
	ta := newTestApp(t)
	resp, err := ta.app.Test(apiRequest("POST", "/api/login", "", map[string]string{"username": "demo", "password": "shopmate1"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIChatReply(t *testing.T) {
	ta := newTestApp(t)
	apiSession(t, ta, "sid-api")

	resp, err := ta.app.Test(apiRequest("POST", "/api/chat", "sid-api", map[string]string{"message": "  show me books  "}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out shopclient.ChatResponse
	decode(t, resp, &out)
	assert.Equal(t, "show me books", out.UserMessage)
	assert.Equal(t, "products", out.BotResponse.Type)
	assert.Len(t, out.BotResponse.Products, 4)
	assert.NotEmpty(t, out.Timestamp)

	hist, err := ta.app.Test(apiRequest("GET", "/api/chat-history", "sid-api", nil))
	require.NoError(t, err)
	var h struct {
		Messages []shopclient.HistoryMessage `json:"messages"`
	}
	decode(t, hist, &h)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, "user", h.Messages[0].Sender)
	assert.Equal(t, "show me books", h.Messages[0].Message)
	assert.Equal(t, "bot", h.Messages[1].Sender)
}

func TestAPIChatRejectsEmpty(t *testing.T) {
	ta := newTestApp(t)
	apiSession(t, ta, "sid-empty")

	resp, err := ta.app.Test(apiRequest("POST", "/api/chat", "sid-empty", map[string]string{"message": "   "}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out map[string]string
	decode(t, resp, &out)
	assert.Equal(t, "Empty message", out["error"])
}

func TestAPIClearChat(t *testing.T) {
	ta := newTestApp(t)
	apiSession(t, ta, "sid-clear")

	_, err := ta.app.Test(apiRequest("POST", "/api/chat", "sid-clear", map[string]string{"message": "hello"}))
	require.NoError(t, err)

	resp, err := ta.app.Test(apiRequest("POST", "/api/clear-chat", "sid-clear", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]bool
	decode(t, resp, &out)
	assert.True(t, out["success"])

	hist, err := ta.app.Test(apiRequest("GET", "/api/chat-history", "sid-clear", nil))
	require.NoError(t, err)
	var h struct {
		Messages []shopclient.HistoryMessage `json:"messages"`
	}
	decode(t, hist, &h)
	assert.Empty(t, h.Messages)
}

func TestAPIAddToCart(t *testing.T) {
	ta := newTestApp(t)
	apiSession(t, ta, "sid-cart")

	resp, err := ta.app.Test(apiRequest("POST", "/api/add-to-cart", "sid-cart", map[string]any{"product_id": 7, "quantity": 1}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res shopclient.CartResult
	decode(t, resp, &res)
	assert.True(t, res.Success)
	assert.Equal(t, "The Art of Programming added to cart!", res.Message)
	assert.Equal(t, 1, res.CartCount)

	missing, err := ta.app.Test(apiRequest("POST", "/api/add-to-cart", "sid-cart", map[string]any{"product_id": 999}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	count, err := ta.app.Test(apiRequest("GET", "/api/cart-count", "sid-cart", nil))
	require.NoError(t, err)
	var c struct {
		Count int `json:"count"`
	}
	decode(t, count, &c)
	assert.Equal(t, 1, c.Count)
}

func TestAPICartCountAnonymous(t *testing.T) {
	ta := newTestApp(t)
	resp, err := ta.app.Test(httptest.NewRequest("GET", "/api/cart-count", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c struct {
		Count int `json:"count"`
	}
	decode(t, resp, &c)
	assert.Equal(t, 0, c.Count)
}
