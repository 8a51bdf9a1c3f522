package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thundertext/suite-auth/internal/http/handlers"
	"github.com/thundertext/suite-auth/internal/http/middleware"
	"github.com/thundertext/suite-auth/internal/models"
	"github.com/thundertext/suite-auth/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger     *slog.Logger
	Timeout    time.Duration
	UpgradeURL string // ссылка для пейвола в отказах APP_ACCESS_DENIED.
	BasePath   string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, svc, opts)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, svc, opts)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
// Auth-политика каждой группы видна прямо здесь, не внутри хендлеров.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc *service.Service, opts Options) {
	// публичные
	r.Post("/auth/validate", h.ValidateToken)
	r.With(middleware.OptionalAuth(svc)).Get("/auth/session", h.Session)

	// любой валидный токен
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(svc))
		r.Post("/auth/refresh", h.RefreshToken)
		r.Get("/account/entitlements", h.Entitlements)
	})

	// app-скоупы
	r.Route("/thundertext", func(r chi.Router) {
		r.Use(middleware.RequireApp(svc, models.AppThunderText, opts.UpgradeURL))
		r.Get("/status", h.AppStatus(models.AppThunderText))
	})
	r.Route("/ace", func(r chi.Router) {
		r.Use(middleware.RequireApp(svc, models.AppACE, opts.UpgradeURL))
		r.Get("/status", h.AppStatus(models.AppACE))
	})

	// админские
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(svc))
		r.Post("/tokens", h.MintToken)
	})
}
