package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/thundertext/suite-auth/internal/models"
	logctx "github.com/thundertext/suite-auth/internal/pkg/log"
	"github.com/thundertext/suite-auth/internal/pkg/redact"
)

// suiteClaims — wire-формат полезной нагрузки токена.
// Имена полей фиксированы контрактом с фронтами обоих приложений:
// sub/apps/shopId/role/iat/exp. iss и jti — служебные добавки сервиса.
type suiteClaims struct {
	Apps   []string `json:"apps"`
	ShopID string   `json:"shopId,omitempty"`
	Role   string   `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueOptions — необязательные параметры выпуска токена.
type IssueOptions struct {
	// ShopID привязывает токен к магазину-тенанту.
	ShopID string
	// Role — роль принципала; пустое значение означает models.RoleUser.
	Role models.Role
	// TTL переопределяет срок жизни токена; <=0 — дефолт из конфигурации.
	TTL time.Duration
}

// IssueToken выпускает подписанный токен для субъекта с набором энтайтлментов.
//
// subject и apps обязательны (ErrEmptySubject/ErrNoApps — ошибки вызывающего
// кода, не клиентского ввода). exp = iat + TTL, роль по умолчанию — user.
func (s *Service) IssueToken(ctx context.Context, subject string, apps []models.App, opts *IssueOptions) (*models.IssuedToken, error) {
	return s.issueAt(ctx, subject, apps, opts, time.Now().UTC())
}

// issueAt — внутренняя точка выпуска с явным моментом времени.
func (s *Service) issueAt(ctx context.Context, subject string, apps []models.App, opts *IssueOptions, now time.Time) (*models.IssuedToken, error) {
	const op = "service.token.issueAt"

	lg := logctx.From(ctx)

	if subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySubject)
	}

	if len(apps) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoApps)
	}

	var o IssueOptions
	if opts != nil {
		o = *opts
	}

	role := o.Role
	if role == "" {
		role = models.RoleUser
	}

	ttl := o.TTL
	if ttl <= 0 {
		ttl = s.cfg.TokenTTL
	}

	expiresAt := now.Add(ttl)

	claims := suiteClaims{
		Apps:   appsToStrings(apps),
		ShopID: o.ShopID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		lg.Error("token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ParseToken верифицирует токен и возвращает декодированные клеймы.
//
// Любой дефект — пустая строка, битая структура, чужая подпись, неподдержанный
// алгоритм, истёкший срок, отсутствие распознаваемых apps — схлопывается в
// единый ErrInvalidToken без деталей: различимые отказы позволяли бы зондом
// выяснять, чем именно плох токен.
func (s *Service) ParseToken(tokenStr string) (*models.Claims, error) {
	const op = "service.token.ParseToken"

	token, err := jwt.ParseWithClaims(tokenStr, &suiteClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*suiteClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	apps := stringsToApps(claims.Apps)
	if !hasKnownApp(apps) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	role := models.Role(claims.Role)
	if role == "" {
		role = models.RoleUser
	}

	out := &models.Claims{
		Subject: claims.Subject,
		Apps:    apps,
		ShopID:  claims.ShopID,
		Role:    role,
	}

	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}

// RefreshToken перевыпускает валидный токен: тот же sub/apps/shopId/role,
// свежие iat/exp/jti. Исходный токен не изменяется и остаётся действительным
// до собственного exp. Невалидный вход никогда не "воскрешается".
func (s *Service) RefreshToken(ctx context.Context, tokenStr string) (*models.IssuedToken, error) {
	const op = "service.token.RefreshToken"

	lg := logctx.From(ctx)

	claims, err := s.ParseToken(tokenStr)
	if err != nil {
		lg.Warn("refresh_rejected",
			slog.String("op", op),
			slog.String("token", redact.Token()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	issued, err := s.IssueToken(ctx, claims.Subject, claims.Apps, &IssueOptions{
		ShopID: claims.ShopID,
		Role:   claims.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return issued, nil
}

func appsToStrings(apps []models.App) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = string(a)
	}

	return out
}

func stringsToApps(apps []string) []models.App {
	out := make([]models.App, len(apps))
	for i, a := range apps {
		out[i] = models.App(a)
	}

	return out
}

func hasKnownApp(apps []models.App) bool {
	for _, a := range apps {
		if models.KnownApp(a) {
			return true
		}
	}

	return false
}

var _ jwt.Claims = (*suiteClaims)(nil)
