package handlers

import (
	"net/http"

	apierrors "github.com/thundertext/suite-auth/internal/errors"
	"github.com/thundertext/suite-auth/internal/http/middleware"
	"github.com/thundertext/suite-auth/internal/models"
)

type appStatusResponse struct {
	App     models.App  `json:"app"`
	Subject string      `json:"subject"`
	Tier    models.Tier `json:"tier"`
}

// AppStatus — пробный эндпойнт app-скоупа: отвечает только принципалам,
// прошедшим RequireApp(app). Фронты используют его как быстрый чек
// "покажет ли приложение пейвол".
func (h *Handlers) AppStatus(app models.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFrom(r.Context())
		if !ok {
			apierrors.WriteDenial(w, r, apierrors.AuthRequired())
			return
		}

		v := viewOf(claims)
		writeJSON(w, http.StatusOK, appStatusResponse{
			App:     app,
			Subject: v.Subject,
			Tier:    v.Tier,
		})
	}
}
