package models

import "time"

// App — тег энтайтлмента из закрытого словаря платформы.
type App string

const (
	// AppThunderText — генератор описаний товаров.
	AppThunderText App = "thundertext"
	// AppACE — генератор рекламных креативов.
	AppACE App = "ace"
	// AppSuite — бандл: даёт доступ ко всем индивидуальным приложениям.
	AppSuite App = "suite"
)

// Role — роль принципала внутри платформы.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Tier — вычисленный уровень подписки принципала.
// Выводится из набора apps, отдельно в токене не хранится.
type Tier string

const (
	TierFree        Tier = "free"
	TierThunderText Tier = "thundertext"
	TierACE         Tier = "ace"
	TierSuite       Tier = "suite"
)

// Claims — декодированное содержимое подписанного токена.
// Бандл иммутабелен после подписи: "рефреш" всегда выпускает новый токен,
// исходный не изменяется.
type Claims struct {
	// Subject — идентификатор принципала (пользователь или магазин).
	Subject string
	// Apps — непустой набор тегов энтайтлментов. Для успешно
	// декодированного токена содержит хотя бы один известный тег.
	Apps []App
	// ShopID — опциональная привязка к магазину-тенанту.
	ShopID string
	// Role — роль; при выпуске по умолчанию RoleUser.
	Role Role
	// IssuedAt/ExpiresAt — момент выпуска и истечения; ExpiresAt > IssuedAt.
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedToken — результат выпуска: подписанная строка и срок действия.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// KnownApp сообщает, входит ли тег в закрытый словарь.
func KnownApp(a App) bool {
	switch a {
	case AppThunderText, AppACE, AppSuite:
		return true
	}

	return false
}
