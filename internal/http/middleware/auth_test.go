package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thundertext/suite-auth/internal/config"
	"github.com/thundertext/suite-auth/internal/models"
	"github.com/thundertext/suite-auth/internal/service"
)

const testUpgradeURL = "/account/upgrade"

func testService() *service.Service {
	return service.New(config.AuthConfig{
		JWTSecret:  "middleware-test-secret",
		TokenTTL:   time.Hour,
		Issuer:     "suite-auth",
		UpgradeURL: testUpgradeURL,
	})
}

func mustToken(t *testing.T, svc *service.Service, subject string, apps []models.App, opts *service.IssueOptions) string {
	t.Helper()

	issued, err := svc.IssueToken(context.Background(), subject, apps, opts)
	require.NoError(t, err)
	return issued.Token
}

// okHandler пишет 200 и запоминает клеймы из контекста.
func okHandler(got **models.Claims) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, ok := ClaimsFrom(r.Context()); ok {
			*got = c
		}
		w.WriteHeader(http.StatusOK)
	}
}

func decodeDenial(t *testing.T, rr *httptest.ResponseRecorder) errEnvelope {
	t.Helper()

	var env errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestExtractToken_HeaderBeatsCookie(t *testing.T) {
	req := makeReq("/x")
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: "cookie-token"})

	require.Equal(t, "header-token", extractToken(req))
}

func TestExtractToken_CookieFallback(t *testing.T) {
	req := makeReq("/x")
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: "cookie-token"})

	require.Equal(t, "cookie-token", extractToken(req))
}

func TestExtractToken_IgnoresNonBearer(t *testing.T) {
	req := makeReq("/x")
	req.Header.Set("Authorization", "Basic abc")

	require.Equal(t, "", extractToken(req))

	// Пустой Bearer тоже не считается токеном.
	req.Header.Set("Authorization", "Bearer ")
	require.Equal(t, "", extractToken(req))
}

func TestOptionalAuth_AnonymousIsNotAnError(t *testing.T) {
	svc := testService()

	var got *models.Claims
	chain := Chain(okHandler(&got), OptionalAuth(svc))

	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/session"))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Nil(t, got)
}

func TestOptionalAuth_InvalidTokenTreatedAsAnonymous(t *testing.T) {
	svc := testService()

	var got *models.Claims
	chain := Chain(okHandler(&got), OptionalAuth(svc))

	rr := httptest.NewRecorder()
	req := makeReq("/session")
	req.Header.Set("Authorization", "Bearer not-a-token")
	chain.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Nil(t, got)
}

func TestOptionalAuth_ValidTokenPopulatesClaims(t *testing.T) {
	svc := testService()
	token := mustToken(t, svc, "user-1", []models.App{models.AppACE}, nil)

	var got *models.Claims
	chain := Chain(okHandler(&got), OptionalAuth(svc))

	rr := httptest.NewRecorder()
	req := makeReq("/session")
	req.Header.Set("Authorization", "Bearer "+token)
	chain.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	require.Equal(t, "user-1", got.Subject)
}

func TestRequireAuth_NoToken_401(t *testing.T) {
	svc := testService()

	var got *models.Claims
	chain := Chain(okHandler(&got), RequireAuth(svc))

	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/private"))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "AUTH_REQUIRED", decodeDenial(t, rr).Error.Code)
	require.Nil(t, got)
}

// Невалидный и отсутствующий токен дают одинаковый по форме отказ.
func TestRequireAuth_InvalidToken_SameShapeAs_NoToken(t *testing.T) {
	svc := testService()

	chain := Chain(okHandler(new(*models.Claims)), RequireAuth(svc))

	rrMissing := httptest.NewRecorder()
	chain.ServeHTTP(rrMissing, makeReq("/private"))

	rrInvalid := httptest.NewRecorder()
	req := makeReq("/private")
	req.Header.Set("Authorization", "Bearer tampered.token.here")
	chain.ServeHTTP(rrInvalid, req)

	require.Equal(t, rrMissing.Code, rrInvalid.Code)
	require.Equal(t, decodeDenial(t, rrMissing).Error.Code, decodeDenial(t, rrInvalid).Error.Code)
}

func TestRequireAuth_CookieSession(t *testing.T) {
	svc := testService()
	token := mustToken(t, svc, "user-1", []models.App{models.AppThunderText}, nil)

	var got *models.Claims
	chain := Chain(okHandler(&got), RequireAuth(svc))

	rr := httptest.NewRecorder()
	req := makeReq("/private")
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
	chain.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	require.Equal(t, "user-1", got.Subject)
}

func TestRequireApp_WrongEntitlement_403WithDetails(t *testing.T) {
	svc := testService()
	token := mustToken(t, svc, "user-1", []models.App{models.AppThunderText}, nil)

	chain := Chain(okHandler(new(*models.Claims)), RequireApp(svc, models.AppACE, testUpgradeURL))

	rr := httptest.NewRecorder()
	req := makeReq("/ace/status")
	req.Header.Set("Authorization", "Bearer "+token)
	chain.ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)

	env := decodeDenial(t, rr)
	require.Equal(t, "APP_ACCESS_DENIED", env.Error.Code)
	require.Equal(t, "ace", env.Error.Details["required_app"])
	require.Equal(t, []any{"thundertext"}, env.Error.Details["user_apps"])
	require.Equal(t, testUpgradeURL, env.Error.Details["subscription_upgrade_url"])
}

func TestRequireApp_SuiteGrantsEveryApp(t *testing.T) {
	svc := testService()
	token := mustToken(t, svc, "user-1", []models.App{models.AppSuite}, nil)

	for _, app := range []models.App{models.AppThunderText, models.AppACE} {
		var got *models.Claims
		chain := Chain(okHandler(&got), RequireApp(svc, app, testUpgradeURL))

		rr := httptest.NewRecorder()
		req := makeReq("/app/status")
		req.Header.Set("Authorization", "Bearer "+token)
		chain.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, got)
		// Набор энтайтлментов доходит до хендлера без изменений.
		require.Equal(t, []models.App{models.AppSuite}, got.Apps)
	}
}

func TestRequireApp_NoToken_401(t *testing.T) {
	svc := testService()

	chain := Chain(okHandler(new(*models.Claims)), RequireApp(svc, models.AppACE, testUpgradeURL))

	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/ace/status"))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "AUTH_REQUIRED", decodeDenial(t, rr).Error.Code)
}

func TestRequireAdmin_RoleGate(t *testing.T) {
	svc := testService()

	adminToken := mustToken(t, svc, "admin-1", []models.App{models.AppSuite},
		&service.IssueOptions{Role: models.RoleAdmin})
	userToken := mustToken(t, svc, "user-1", []models.App{models.AppSuite}, nil)

	chain := Chain(okHandler(new(*models.Claims)), RequireAdmin(svc))

	t.Run("admin passes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := makeReq("/admin")
		req.Header.Set("Authorization", "Bearer "+adminToken)
		chain.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("user denied", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := makeReq("/admin")
		req.Header.Set("Authorization", "Bearer "+userToken)
		chain.ServeHTTP(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
		require.Equal(t, "ADMIN_REQUIRED", decodeDenial(t, rr).Error.Code)
	})

	t.Run("no token denied", func(t *testing.T) {
		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, makeReq("/admin"))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.Equal(t, "AUTH_REQUIRED", decodeDenial(t, rr).Error.Code)
	})
}

func TestTokenFrom_RawTokenReachesHandler(t *testing.T) {
	svc := testService()
	token := mustToken(t, svc, "user-1", []models.App{models.AppACE}, nil)

	var raw string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = TokenFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, RequireAuth(svc))

	rr := httptest.NewRecorder()
	req := makeReq("/refresh")
	req.Header.Set("Authorization", "Bearer "+token)
	chain.ServeHTTP(rr, req)

	require.Equal(t, token, raw)
}
