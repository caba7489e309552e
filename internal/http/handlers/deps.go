package handlers

import (
	"shopmate/internal/config"
	"shopmate/internal/metrics"
	"shopmate/internal/repos"
	"shopmate/internal/services"
	"shopmate/internal/shell"
	"shopmate/internal/shopclient"
	"shopmate/internal/widget"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth         *services.AuthService
	Prefs        *repos.PrefsRepo
	SecureCookie bool

	AuthHandler   *AuthHandler
	APIHandler    *APIHandler
	CartHandler   *CartHandler
	WidgetHandler *WidgetHandler
}

// NewDeps wires repositories, services and handlers. The widget reaches the
// API through client, normally this same server over loopback.
func NewDeps(db *sqlx.DB, cfg config.Config, client *shopclient.Client) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	chatRepo := repos.NewChatRepo(db)
	prefs := repos.NewPrefsRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	bot := services.NewAssistant(services.NewCatalogService(prodRepo), cartSvc)
	chatSvc := services.NewChatService(chatRepo, bot)

	widgets := widget.NewRegistry(nil, cfg.WidgetIdle, func(sid string) *widget.Controller {
		n := shell.NewNotifier(nil, cfg.ToastTTL)
		n.OnShow = func(t shell.Toast) { metrics.Toasts.WithLabelValues(string(t.Kind)).Inc() }
		return widget.New(client.Session(sid), widget.Options{
			Notifier:   n,
			Store:      prefs.Scope(sid),
			DraftDelay: cfg.DraftDelay,
		})
	})

	return &Deps{
		Auth:          authSvc,
		Prefs:         prefs,
		SecureCookie:  cfg.SecureCookie,
		AuthHandler:   &AuthHandler{Auth: authSvc, Widgets: widgets, SecureCookie: cfg.SecureCookie},
		APIHandler:    &APIHandler{Auth: authSvc, ChatSvc: chatSvc},
		CartHandler:   &CartHandler{Cart: cartSvc},
		WidgetHandler: &WidgetHandler{Widgets: widgets, Prefs: prefs, SecureCookie: cfg.SecureCookie},
	}
}
