package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/thundertext/suite-auth/internal/entitlements"
	"github.com/thundertext/suite-auth/internal/models"
	"github.com/thundertext/suite-auth/internal/service"
)

// Handlers агрегирует зависимости HTTP-хендлеров.
type Handlers struct {
	Svc *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{Svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// claimsView — представление клеймов для фронта (unix-секунды в датах).
type claimsView struct {
	Subject   string       `json:"subject"`
	Apps      []models.App `json:"apps"`
	ShopID    string       `json:"shop_id,omitempty"`
	Role      models.Role  `json:"role"`
	Tier      models.Tier  `json:"tier"`
	IssuedAt  int64        `json:"issued_at"`
	ExpiresAt int64        `json:"expires_at"`
}

func viewOf(c *models.Claims) claimsView {
	return claimsView{
		Subject:   c.Subject,
		Apps:      c.Apps,
		ShopID:    c.ShopID,
		Role:      c.Role,
		Tier:      entitlements.SubscriptionTier(c),
		IssuedAt:  c.IssuedAt.Unix(),
		ExpiresAt: c.ExpiresAt.Unix(),
	}
}
