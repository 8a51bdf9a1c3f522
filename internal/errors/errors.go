// errors стандартизирует ответы об отказе в авторизации HTTP-слоя.
// На вход он принимает либо готовый denial (отказ политики доступа), либо
// ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - машиночитаемый код из закрытого набора;
//   - безопасное message без утечки деталей.
//
// Контракт с фронтами обоих приложений:
//
//	401 AUTH_REQUIRED      — нет токена или токен невалиден (неразличимо);
//	403 APP_ACCESS_DENIED  — валидный токен, нет нужного энтайтлмента;
//	403 ADMIN_REQUIRED     — валидный токен, роль не admin.
//
// Для APP_ACCESS_DENIED details содержит required_app, user_apps и ссылку
// на апгрейд подписки — достаточно, чтобы фронт нарисовал пейвол, но ничего
// о чужих тенантах.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/thundertext/suite-auth/internal/models"
	"github.com/thundertext/suite-auth/internal/service"
)

// Коды отказов. Первые три — закрытый набор контракта авторизации.
const (
	CodeAuthRequired    = "AUTH_REQUIRED"
	CodeAppAccessDenied = "APP_ACCESS_DENIED"
	CodeAdminRequired   = "ADMIN_REQUIRED"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInternal        = "INTERNAL"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Details   *Details `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// Details — структурированные детали отказа по энтайтлментам.
type Details struct {
	RequiredApp models.App   `json:"required_app,omitempty"`
	UserApps    []models.App `json:"user_apps,omitempty"`
	UpgradeURL  string       `json:"subscription_upgrade_url,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Denial — терминальный отказ авторизации: статус + готовое тело.
// Хендлер, получивший Denial от мидлвара, обязан вернуть его как есть.
type Denial struct {
	Status int
	Body   ErrorResponse
}

// AuthRequired — 401: учётные данные отсутствуют или невалидны.
// Оба случая намеренно одинаковы по форме.
func AuthRequired() Denial {
	return Denial{
		Status: http.StatusUnauthorized,
		Body: ErrorResponse{Error: APIError{
			Code:    CodeAuthRequired,
			Message: "authentication required",
		}},
	}
}

// AppAccessDenied — 403: валидный принципал без нужного энтайтлмента.
func AppAccessDenied(required models.App, held []models.App, upgradeURL string) Denial {
	return Denial{
		Status: http.StatusForbidden,
		Body: ErrorResponse{Error: APIError{
			Code:    CodeAppAccessDenied,
			Message: "no access to the requested app",
			Details: &Details{
				RequiredApp: required,
				UserApps:    held,
				UpgradeURL:  upgradeURL,
			},
		}},
	}
}

// AdminRequired — 403: валидный принципал с ролью, отличной от admin.
func AdminRequired() Denial {
	return Denial{
		Status: http.StatusForbidden,
		Body: ErrorResponse{Error: APIError{
			Code:    CodeAdminRequired,
			Message: "admin role required",
		}},
	}
}

// InvalidArgument — 400: битое тело запроса или параметры.
func InvalidArgument() Denial {
	return Denial{
		Status: http.StatusBadRequest,
		Body: ErrorResponse{Error: APIError{
			Code:    CodeInvalidArgument,
			Message: "invalid argument",
		}},
	}
}

// Internal — 500 без деталей.
func Internal() Denial {
	return Denial{
		Status: http.StatusInternalServerError,
		Body: ErrorResponse{Error: APIError{
			Code:    CodeInternal,
			Message: "internal error",
		}},
	}
}

// WriteDenial пишет отказ в ResponseWriter, добавляя request_id из заголовка.
func WriteDenial(w http.ResponseWriter, r *http.Request, d Denial) {
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		d.Body.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(d.Status)
	_ = json.NewEncoder(w).Encode(d.Body)
}

// WriteError конвертирует ошибку сервисного слоя в HTTP-ответ.
//
// Поведение:
//   - service.ErrInvalidToken -> 401 AUTH_REQUIRED (без деталей);
//   - service.ErrEmptySubject / service.ErrNoApps -> 400 INVALID_ARGUMENT;
//   - всё прочее (включая err == nil — программная ошибка вызова) ->
//     500 INTERNAL, чтобы не маскировать баг успешным статусом.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case stderrors.Is(err, service.ErrInvalidToken):
		WriteDenial(w, r, AuthRequired())
	case stderrors.Is(err, service.ErrEmptySubject), stderrors.Is(err, service.ErrNoApps):
		WriteDenial(w, r, InvalidArgument())
	default:
		WriteDenial(w, r, Internal())
	}
}
