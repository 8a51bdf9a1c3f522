package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/thundertext/suite-auth/internal/entitlements"
	apierrors "github.com/thundertext/suite-auth/internal/errors"
	"github.com/thundertext/suite-auth/internal/models"
	logctx "github.com/thundertext/suite-auth/internal/pkg/log"
	"github.com/thundertext/suite-auth/internal/pkg/redact"
	"github.com/thundertext/suite-auth/internal/service"
)

// AuthCookie — имя cookie с токеном для браузерных сессий.
const AuthCookie = "token"

// extractToken вынимает bearer-токен из запроса.
// Приоритет фиксирован контрактом: заголовок Authorization (server-to-server
// и явные API-вызовы), затем cookie (браузерные сессии). Молчаливая смена
// порядка ломает один из двух потоков.
func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(auth, prefix) && len(auth) > len(prefix) {
			if token := strings.TrimSpace(auth[len(prefix):]); token != "" {
				return token
			}
		}
	}

	if c, err := r.Cookie(AuthCookie); err == nil && c.Value != "" {
		return c.Value
	}

	return ""
}

// Authenticate — базовый блок всех политик: извлекает и декодирует токен.
// Возвращает клеймы (или nil для анонима/невалидного токена) и сырой токен.
// Никогда не пишет в ResponseWriter и не различает "нет токена" и
// "токен невалиден".
func Authenticate(svc *service.Service, r *http.Request) (*models.Claims, string) {
	raw := extractToken(r)
	if raw == "" {
		return nil, ""
	}

	claims, err := svc.ParseToken(raw)
	if err != nil {
		return nil, raw
	}

	return claims, raw
}

// withAuth кладёт клеймы и сырой токен в контекст запроса.
func withAuth(ctx context.Context, claims *models.Claims, raw string) context.Context {
	if raw != "" {
		ctx = context.WithValue(ctx, CtxAuthToken, raw)
	}
	if claims != nil {
		ctx = context.WithValue(ctx, CtxClaims, claims)
	}

	return ctx
}

// OptionalAuth аутентифицирует запрос, если токен есть и валиден, и
// пропускает дальше в любом случае: отсутствие валидного токена — штатный
// исход (аноним), не ошибка.
func OptionalAuth(svc *service.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, raw := Authenticate(svc, r)
			next.ServeHTTP(w, r.WithContext(withAuth(r.Context(), claims, raw)))
		})
	}
}

// RequireAuth требует любой валидный токен: 401 AUTH_REQUIRED иначе.
func RequireAuth(svc *service.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, raw := Authenticate(svc, r)
			if claims == nil {
				apierrors.WriteDenial(w, r, apierrors.AuthRequired())
				return
			}

			next.ServeHTTP(w, r.WithContext(withAuth(r.Context(), claims, raw)))
		})
	}
}

// RequireApp требует валидный токен с энтайтлментом app (или suite).
// Отказ 403 несёт required_app, набор пользователя и ссылку на апгрейд.
func RequireApp(svc *service.Service, app models.App, upgradeURL string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, raw := Authenticate(svc, r)
			if claims == nil {
				apierrors.WriteDenial(w, r, apierrors.AuthRequired())
				return
			}

			if !entitlements.HasAppAccess(claims, app) {
				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelWarn, "app_access_denied",
					slog.String("subject", redact.Subject(claims.Subject)),
					slog.String("required_app", string(app)),
				)
				apierrors.WriteDenial(w, r, apierrors.AppAccessDenied(app, claims.Apps, upgradeURL))
				return
			}

			next.ServeHTTP(w, r.WithContext(withAuth(r.Context(), claims, raw)))
		})
	}
}

// RequireAdmin требует валидный токен с ролью admin.
// Проверки энтайтлментов здесь нет: admin-скоуп ортогонален app-скоупу.
func RequireAdmin(svc *service.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, raw := Authenticate(svc, r)
			if claims == nil {
				apierrors.WriteDenial(w, r, apierrors.AuthRequired())
				return
			}

			if claims.Role != models.RoleAdmin {
				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelWarn, "admin_required",
					slog.String("subject", redact.Subject(claims.Subject)),
				)
				apierrors.WriteDenial(w, r, apierrors.AdminRequired())
				return
			}

			next.ServeHTTP(w, r.WithContext(withAuth(r.Context(), claims, raw)))
		})
	}
}
