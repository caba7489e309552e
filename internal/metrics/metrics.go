// Package metrics exposes the Prometheus counters for the chat widget and the
// backend API.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ChatSubmissions counts widget submissions by outcome: ok, error, stale.
	ChatSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopmate",
		Subsystem: "widget",
		Name:      "chat_submissions_total",
		Help:      "Chat messages submitted from the widget, by outcome.",
	}, []string{"result"})

	CartAdds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopmate",
		Subsystem: "widget",
		Name:      "cart_adds_total",
		Help:      "Add-to-cart requests from the widget, by outcome.",
	}, []string{"result"})

	Toasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopmate",
		Subsystem: "widget",
		Name:      "toasts_total",
		Help:      "Toast notifications shown, by kind.",
	}, []string{"kind"})

	// AssistantReplies counts backend replies by reply type.
	AssistantReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopmate",
		Subsystem: "api",
		Name:      "assistant_replies_total",
		Help:      "Assistant replies produced by /api/chat, by reply type.",
	}, []string{"type"})

	ActiveWidgets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "shopmate",
		Subsystem: "widget",
		Name:      "sessions_active",
		Help:      "Chat controllers held in memory.",
	})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
