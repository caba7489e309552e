package shell

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

// DefaultToastTTL is how long a toast stays up unless dismissed.
const DefaultToastTTL = 5 * time.Second

var kindClasses = map[Kind]string{
	Success: "bg-green-50 text-green-800 border border-green-200",
	Error:   "bg-red-50 text-red-800 border border-red-200",
	Warning: "bg-yellow-50 text-yellow-800 border border-yellow-200",
	Info:    "bg-blue-50 text-blue-800 border border-blue-200",
}

var kindIcons = map[Kind]string{
	Success: "fa-check-circle",
	Error:   "fa-exclamation-triangle",
	Warning: "fa-exclamation-circle",
	Info:    "fa-info-circle",
}

// Classes returns the banner classes; unknown kinds style as info.
func (k Kind) Classes() string {
	if c, ok := kindClasses[k]; ok {
		return c
	}
	return kindClasses[Info]
}

func (k Kind) Icon() string {
	if i, ok := kindIcons[k]; ok {
		return i
	}
	return kindIcons[Info]
}

type Toast struct {
	ID      string
	Kind    Kind
	Message string
	Created time.Time
}

// Notifier keeps the stack of visible toasts. Each toast removes itself after
// the TTL; Dismiss removes it early.
type Notifier struct {
	clock Clock
	ttl   time.Duration

	// OnShow, when set, observes every toast as it is shown.
	OnShow func(Toast)

	mu     sync.Mutex
	toasts []Toast
	timers map[string]Timer
}

func NewNotifier(clock Clock, ttl time.Duration) *Notifier {
	if clock == nil {
		clock = RealClock()
	}
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &Notifier{clock: clock, ttl: ttl, timers: map[string]Timer{}}
}

func (n *Notifier) Show(kind Kind, message string) Toast {
	t := Toast{ID: uuid.NewString(), Kind: kind, Message: message, Created: n.clock.Now()}

	n.mu.Lock()
	n.toasts = append(n.toasts, t)
	n.timers[t.ID] = n.clock.AfterFunc(n.ttl, func() { n.remove(t.ID) })
	onShow := n.OnShow
	n.mu.Unlock()

	if onShow != nil {
		onShow(t)
	}
	return t
}

func (n *Notifier) Dismiss(id string) bool {
	n.mu.Lock()
	if tm, ok := n.timers[id]; ok {
		tm.Stop()
	}
	n.mu.Unlock()
	return n.remove(id)
}

func (n *Notifier) remove(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.timers, id)
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the visible toasts, oldest first.
func (n *Notifier) Active() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Toast, len(n.toasts))
	copy(out, n.toasts)
	return out
}
