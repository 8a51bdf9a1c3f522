package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/thundertext/suite-auth/internal/errors"
	"github.com/thundertext/suite-auth/internal/models"
	"github.com/thundertext/suite-auth/internal/service"
)

type mintTokenRequest struct {
	Subject    string       `json:"subject"`
	Apps       []models.App `json:"apps"`
	ShopID     string       `json:"shop_id,omitempty"`
	Role       models.Role  `json:"role,omitempty"`
	TTLSeconds int64        `json:"ttl_seconds,omitempty"`
}

type mintTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// MintToken выпускает токен для заданного субъекта. Операторский маршрут
// за RequireAdmin: штатный логин-флоу живёт в приложениях, а здесь — ручной
// выпуск для поддержки и server-to-server интеграций.
func (h *Handlers) MintToken(w http.ResponseWriter, r *http.Request) {
	var in mintTokenRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteDenial(w, r, apierrors.InvalidArgument())
		return
	}

	for _, a := range in.Apps {
		if !models.KnownApp(a) {
			apierrors.WriteDenial(w, r, apierrors.InvalidArgument())
			return
		}
	}

	issued, err := h.Svc.IssueToken(r.Context(), in.Subject, in.Apps, &service.IssueOptions{
		ShopID: in.ShopID,
		Role:   in.Role,
		TTL:    time.Duration(in.TTLSeconds) * time.Second,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mintTokenResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt.Unix(),
	})
}
