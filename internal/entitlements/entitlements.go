// entitlements реализует чистую алгебру доступа над декодированными
// клеймами: "есть ли у принципала доступ к приложению X" и "какой у него
// уровень подписки".
//
// Пакет не делает I/O и не мутирует входные данные; все функции тотальны
// по своим аргументам (nil-клеймы — валидный вход, означает анонима).
package entitlements

import "github.com/thundertext/suite-auth/internal/models"

// HasAppAccess сообщает, может ли принципал пользоваться приложением app.
//
// Правила:
//   - nil-клеймы — всегда false;
//   - тег suite покрывает любое приложение, включая сам suite;
//   - иначе — точное членство тега в наборе.
func HasAppAccess(c *models.Claims, app models.App) bool {
	if c == nil {
		return false
	}

	for _, a := range c.Apps {
		if a == models.AppSuite || a == app {
			return true
		}
	}

	return false
}

// SubscriptionTier вычисляет уровень подписки принципала.
//
// Приоритет правил:
//  1. nil-клеймы -> free;
//  2. есть suite -> suite;
//  3. есть оба индивидуальных тега -> suite (объединение индивидуальных
//     энтайтлментов схлопывается в бандл, отдельного "multi"-уровня нет);
//  4. ровно один индивидуальный тег -> уровень этого приложения;
//  5. пусто/нераспознанное -> free.
func SubscriptionTier(c *models.Claims) models.Tier {
	if c == nil {
		return models.TierFree
	}

	var hasTT, hasACE bool

	for _, a := range c.Apps {
		switch a {
		case models.AppSuite:
			return models.TierSuite
		case models.AppThunderText:
			hasTT = true
		case models.AppACE:
			hasACE = true
		}
	}

	switch {
	case hasTT && hasACE:
		return models.TierSuite
	case hasTT:
		return models.TierThunderText
	case hasACE:
		return models.TierACE
	}

	return models.TierFree
}
