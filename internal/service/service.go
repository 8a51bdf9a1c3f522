// service содержит ядро авторизации платформы: выпуск, проверку и
// перевыпуск подписанных токенов с app-скоупом.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин —
//     единственный разделяемый ресурс (подписывающий секрет) читается
//     из конфигурации один раз на старте и не мутируется.
//   - Ошибки возвращаются значениями и далее маппятся HTTP-слоем на
//     denial-ответы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/thundertext/suite-auth/internal/config"
)

var (
	// ErrInvalidToken — токен некорректен: пустая строка, битый формат,
	// неверная подпись, истёкший срок или отсутствие распознаваемых
	// энтайтлментов. Все эти случаи намеренно неразличимы для вызывающего,
	// чтобы не давать оракул валидности. HTTP-слой: 401 AUTH_REQUIRED.
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmptySubject — попытка выпустить токен без субъекта.
	// Ошибка программиста на стороне вызывающего, не клиентский ввод.
	ErrEmptySubject = errors.New("empty subject")

	// ErrNoApps — попытка выпустить токен без единого энтайтлмента.
	// Декодированный бандл обязан содержать непустой набор apps, поэтому
	// и выпуск пустого набора запрещён.
	ErrNoApps = errors.New("empty apps")
)

// Service описывает кодек токенов платформы.
type Service struct {
	cfg config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(cfg config.AuthConfig) *Service {
	return &Service{cfg: cfg}
}
