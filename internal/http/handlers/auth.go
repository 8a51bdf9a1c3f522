package handlers

import (
	"net/http"

	apierrors "github.com/thundertext/suite-auth/internal/errors"
	"github.com/thundertext/suite-auth/internal/http/middleware"
)

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid  bool        `json:"valid"`
	Claims *claimsView `json:"claims,omitempty"`
}

// ValidateToken проверяет токен из тела запроса.
// Невалидный токен — штатный ответ 200 {"valid":false} без причины отказа:
// формат/подпись/срок неразличимы снаружи.
func (h *Handlers) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var in validateRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteDenial(w, r, apierrors.InvalidArgument())
		return
	}

	claims, err := h.Svc.ParseToken(in.Token)
	if err != nil {
		writeJSON(w, http.StatusOK, validateResponse{Valid: false})
		return
	}

	v := viewOf(claims)
	writeJSON(w, http.StatusOK, validateResponse{Valid: true, Claims: &v})
}

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	Claims        *claimsView `json:"claims,omitempty"`
}

// Session возвращает состояние текущей сессии. Маршрут стоит за
// OptionalAuth: аноним получает authenticated=false, не ошибку.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}

	v := viewOf(claims)
	writeJSON(w, http.StatusOK, sessionResponse{Authenticated: true, Claims: &v})
}

type refreshResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// RefreshToken перевыпускает предъявленный токен: те же клеймы, свежие
// iat/exp. Маршрут стоит за RequireAuth, так что сырой токен в контексте
// уже прошёл верификацию; исходный токен при этом не инвалидируется.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	raw := middleware.TokenFrom(r.Context())

	issued, err := h.Svc.RefreshToken(r.Context(), raw)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt.Unix(),
	})
}

// Entitlements возвращает subject/apps/tier текущего принципала.
func (h *Handlers) Entitlements(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		// Маршрут регистрируется за RequireAuth; без него клеймов нет.
		apierrors.WriteDenial(w, r, apierrors.AuthRequired())
		return
	}

	writeJSON(w, http.StatusOK, viewOf(claims))
}
