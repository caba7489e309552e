// Package shopclient is the widget's HTTP client for the ShopMate backend API.
package shopclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SessionHeader carries the browser session id on backend calls.
const SessionHeader = "X-Session-ID"

var ErrStatus = errors.New("unexpected status")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string { return fmt.Sprintf("HTTP error! status: %d", e.Code) }
func (e *StatusError) Unwrap() error { return ErrStatus }

type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type BotResponse struct {
	Message  string    `json:"message"`
	Type     string    `json:"type"`
	Products []Product `json:"products,omitempty"`
	Total    *float64  `json:"total,omitempty"`
}

type ChatResponse struct {
	UserMessage string      `json:"user_message"`
	BotResponse BotResponse `json:"bot_response"`
	Timestamp   string      `json:"timestamp"`
}

type CartResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CartCount int    `json:"cart_count"`
}

type HistoryMessage struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Client is safe for concurrent use. Session returns a view bound to one
// browser session that shares the underlying connection pool.
type Client struct {
	http *resty.Client
	sid  string
}

func New(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Requested-With", "XMLHttpRequest")
	return &Client{http: r}
}

func (c *Client) Session(sid string) *Client { return &Client{http: c.http, sid: sid} }

func (c *Client) SessionID() string { return c.sid }

func (c *Client) req(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if c.sid != "" {
		r.SetHeader(SessionHeader, c.sid)
	}
	return r
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

func (c *Client) Chat(ctx context.Context, message string) (ChatResponse, error) {
	var out ChatResponse
	err := check(c.req(ctx).
		SetBody(map[string]string{"message": message}).
		SetResult(&out).
		Post("/api/chat"))
	return out, err
}

func (c *Client) AddToCart(ctx context.Context, productID int64, qty int) (CartResult, error) {
	var out CartResult
	err := check(c.req(ctx).
		SetBody(map[string]any{"product_id": productID, "quantity": qty}).
		SetResult(&out).
		Post("/api/add-to-cart"))
	return out, err
}

func (c *Client) CartCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := check(c.req(ctx).SetResult(&out).Get("/api/cart-count"))
	return out.Count, err
}

func (c *Client) ClearChat(ctx context.Context) error {
	return check(c.req(ctx).Post("/api/clear-chat"))
}

func (c *Client) History(ctx context.Context) ([]HistoryMessage, error) {
	var out struct {
		Messages []HistoryMessage `json:"messages"`
	}
	err := check(c.req(ctx).SetResult(&out).Get("/api/chat-history"))
	return out.Messages, err
}

// Login signs the bound session in with the backend.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return check(c.req(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		Post("/api/login"))
}
