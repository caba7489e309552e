// Package widget implements the ShopMate chat widget: a per-browser controller
// that owns the transcript and talks to the backend API, and the pure
// rendering of that transcript.
package widget

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"sync"
	"time"

	applog "shopmate/internal/log"
	"shopmate/internal/metrics"
	"shopmate/internal/shell"
	"shopmate/internal/shopclient"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	ErrBusy         = errors.New("a message is already being sent")
)

const (
	DraftKey          = "shopmate-draft"
	DefaultDraftDelay = 500 * time.Millisecond
	PulseFor          = 2 * time.Second
	voiceInterval     = 2 * time.Second

	sendIdle = `<i class="fas fa-paper-plane"></i>`
)

// Toast texts.
const (
	MsgSendFailed      = "Failed to send message. Please try again."
	MsgCartFailed      = "Failed to add item to cart"
	MsgCountFailed     = "Failed to update cart count"
	MsgHistoryFailed   = "Failed to load chat history"
	MsgExported        = "Chat history exported successfully!"
	MsgCleared         = "Chat history cleared!"
	MsgClearFailed     = "Failed to clear chat history"
	MsgVoiceComingSoon = "Voice input coming soon!"
)

// Backend is the subset of the API the widget consumes.
type Backend interface {
	Chat(ctx context.Context, message string) (shopclient.ChatResponse, error)
	AddToCart(ctx context.Context, productID int64, qty int) (shopclient.CartResult, error)
	CartCount(ctx context.Context) (int, error)
	ClearChat(ctx context.Context) error
	History(ctx context.Context) ([]shopclient.HistoryMessage, error)
}

type Options struct {
	Clock      shell.Clock
	Notifier   *shell.Notifier
	Store      shell.Store
	DraftDelay time.Duration
}

// Controller holds one browser's chat state. All methods are safe for
// concurrent use; the lock is never held across a backend call.
type Controller struct {
	backend Backend
	clock   shell.Clock
	notify  *shell.Notifier
	store   shell.Store
	drafts  *shell.Debouncer
	voice   *shell.Throttle

	mu         sync.Mutex
	entries    []Entry
	gen        uint64
	processing bool
	typing     bool
	draft      string
	cartCount  int
	pulseUntil time.Time
	send       shell.Button
}

func New(backend Backend, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = shell.RealClock()
	}
	if opts.DraftDelay <= 0 {
		opts.DraftDelay = DefaultDraftDelay
	}
	return &Controller{
		backend: backend,
		clock:   opts.Clock,
		notify:  opts.Notifier,
		store:   opts.Store,
		drafts:  shell.NewDebouncer(opts.Clock, opts.DraftDelay),
		voice:   shell.NewThrottle(opts.Clock, voiceInterval),
		send:    shell.Button{Content: sendIdle},
	}
}

// Init restores the saved draft, loads the stored conversation and the cart
// count. It is called once when the controller is created.
func (c *Controller) Init(ctx context.Context) {
	if c.store != nil {
		if d, ok, err := c.store.Get(DraftKey); err != nil {
			applog.Event("widget.draft.restore", err, nil)
		} else if ok {
			c.mu.Lock()
			c.draft = d
			c.mu.Unlock()
		}
	}

	hist, err := c.backend.History(ctx)
	if err != nil {
		applog.Event("widget.history.fail", err, nil)
		c.toast(shell.Error, MsgHistoryFailed)
	}
	now := c.clock.Now()
	c.mu.Lock()
	c.entries = c.entries[:0]
	for _, m := range hist {
		at := parseStamp(m.Timestamp, now)
		if m.Sender == "user" {
			c.entries = append(c.entries, UserMessage{Text: m.Message, Time: at})
		} else {
			c.entries = append(c.entries, BotMessage{Text: m.Message, Time: at})
		}
	}
	if len(c.entries) == 0 {
		c.entries = append(c.entries, BotMessage{Text: WelcomeText, Time: now})
	}
	c.mu.Unlock()

	c.RefreshCartCount(ctx)
}

// parseStamp reads a stored message time. Stamps without a zone are UTC, as
// sqlite writes them; the result is shown in the clock's zone like live
// messages.
func parseStamp(s string, fallback time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(fallback.Location())
		}
	}
	return fallback
}

// Submit sends one message. It returns ErrEmptyMessage or ErrBusy when the
// message is rejected before any network call. Backend failures are reported
// in the transcript and as a toast, and Submit returns nil.
func (c *Controller) Submit(ctx context.Context, text string) error {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return ErrBusy
	}
	c.processing = true
	c.typing = true
	c.draft = ""
	c.send.ShowLoading("Sending...")
	c.entries = append(c.entries, UserMessage{Text: msg, Time: c.clock.Now()})
	gen := c.gen
	c.mu.Unlock()

	c.dropDraft()

	resp, err := c.backend.Chat(ctx, msg)

	c.mu.Lock()
	c.typing = false
	c.processing = false
	c.send.HideLoading()
	stale := gen != c.gen
	now := c.clock.Now()
	if !stale {
		if err != nil {
			c.entries = append(c.entries, ErrorMessage{Text: ConnectionErrorText, Time: now})
		} else {
			c.entries = append(c.entries, BotMessage{Text: resp.BotResponse.Message, Time: now})
			if len(resp.BotResponse.Products) > 0 {
				c.entries = append(c.entries, ProductCardBlock{Products: resp.BotResponse.Products, Time: now})
			}
		}
	}
	c.mu.Unlock()

	switch {
	case stale:
		metrics.ChatSubmissions.WithLabelValues("stale").Inc()
		applog.Event("widget.chat.stale", err, map[string]any{"len": len(msg)})
		if err != nil {
			c.toast(shell.Error, MsgSendFailed)
		}
	case err != nil:
		metrics.ChatSubmissions.WithLabelValues("error").Inc()
		applog.Event("widget.chat.fail", err, map[string]any{"len": len(msg)})
		c.toast(shell.Error, MsgSendFailed)
	default:
		metrics.ChatSubmissions.WithLabelValues("ok").Inc()
		applog.Event("widget.chat.ok", nil, map[string]any{
			"len": len(msg), "type": resp.BotResponse.Type, "products": len(resp.BotResponse.Products),
		})
		c.RefreshCartCount(ctx)
	}
	return nil
}

// AddToCart adds one unit of productID. Only a confirmed add touches the
// transcript; any failure is a toast. The badge is then reloaded from the
// cart-count endpoint; a count carried by the add response is used only when
// that reload fails.
func (c *Controller) AddToCart(ctx context.Context, productID int64) {
	res, err := c.backend.AddToCart(ctx, productID, 1)
	if err == nil && !res.Success {
		err = errors.New("backend reported failure")
	}
	if err != nil {
		metrics.CartAdds.WithLabelValues("error").Inc()
		applog.Event("widget.cart.fail", err, map[string]any{"product_id": productID})
		c.toast(shell.Error, MsgCartFailed)
		return
	}

	metrics.CartAdds.WithLabelValues("ok").Inc()
	c.mu.Lock()
	c.entries = append(c.entries, BotMessage{Text: "✅ " + res.Message, Time: c.clock.Now()})
	c.mu.Unlock()
	c.toast(shell.Success, res.Message)

	if !c.RefreshCartCount(ctx) && res.CartCount > 0 {
		c.mu.Lock()
		c.setCount(res.CartCount)
		c.mu.Unlock()
	}
}

// RefreshCartCount reloads the badge from the backend and reports whether it
// succeeded.
func (c *Controller) RefreshCartCount(ctx context.Context) bool {
	n, err := c.backend.CartCount(ctx)
	if err != nil {
		applog.Event("widget.cartcount.fail", err, nil)
		c.toast(shell.Warning, MsgCountFailed)
		return false
	}
	c.mu.Lock()
	c.setCount(n)
	c.mu.Unlock()
	return true
}

// setCount requires c.mu.
func (c *Controller) setCount(n int) {
	c.cartCount = n
	c.pulseUntil = c.clock.Now().Add(PulseFor)
}

// SetDraft records the input text and saves it once typing pauses.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
	if c.store == nil {
		return
	}
	c.drafts.Trigger(func() {
		if err := c.store.Set(DraftKey, text); err != nil {
			applog.Event("widget.draft.save", err, nil)
		}
	})
}

func (c *Controller) dropDraft() {
	c.drafts.Cancel()
	if c.store == nil {
		return
	}
	if err := c.store.Delete(DraftKey); err != nil {
		applog.Event("widget.draft.delete", err, nil)
	}
}

// Export returns the file name and text of the current transcript.
func (c *Controller) Export() (string, []byte) {
	c.mu.Lock()
	body := ExportText(c.entries)
	now := c.clock.Now()
	c.mu.Unlock()
	c.toast(shell.Success, MsgExported)
	return ExportName(now), []byte(body)
}

// Clear drops the stored history and resets the transcript to the welcome
// message. A chat reply still in flight is discarded when it arrives.
func (c *Controller) Clear(ctx context.Context) {
	if err := c.backend.ClearChat(ctx); err != nil {
		applog.Event("widget.clear.fail", err, nil)
		c.toast(shell.Error, MsgClearFailed)
		return
	}
	c.mu.Lock()
	c.gen++
	c.entries = []Entry{BotMessage{Text: WelcomeText, Time: c.clock.Now()}}
	c.mu.Unlock()
	c.toast(shell.Success, MsgCleared)
}

// Voice is a placeholder; repeated presses inside the throttle window are
// ignored.
func (c *Controller) Voice() bool {
	return c.voice.Do(func() { c.toast(shell.Info, MsgVoiceComingSoon) })
}

func (c *Controller) toast(kind shell.Kind, msg string) {
	if c.notify != nil {
		c.notify.Show(kind, msg)
	}
}

func (c *Controller) Notifier() *shell.Notifier { return c.notify }

// View is a point-in-time copy of the controller state for rendering.
type View struct {
	Entries    []Entry
	Transcript template.HTML
	Typing     bool
	Processing bool
	Draft      string
	CartCount  int
	Pulse      bool
	SendButton template.HTML
	Toasts     []shell.Toast
}

func (c *Controller) Snapshot() (View, error) {
	c.mu.Lock()
	v := View{
		Entries:    append([]Entry(nil), c.entries...),
		Typing:     c.typing,
		Processing: c.processing,
		Draft:      c.draft,
		CartCount:  c.cartCount,
		Pulse:      c.clock.Now().Before(c.pulseUntil),
		SendButton: template.HTML(c.send.Content),
	}
	c.mu.Unlock()

	if c.notify != nil {
		v.Toasts = c.notify.Active()
	}
	html, err := Render(v.Entries)
	if err != nil {
		return v, err
	}
	v.Transcript = html
	return v, nil
}
