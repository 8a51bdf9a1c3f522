package redact

import "strings"

// Subject сокращает идентификатор принципала для логов: первые 4 символа + "***".
func Subject(s string) string {
	if len(s) <= 4 {
		return "***"
	}

	return s[:4] + "***"
}

// Shop сокращает shop-идентификатор, сохраняя домен после точки (если есть).
func Shop(s string) string {
	if i := strings.IndexByte(s, '.'); i > 0 {
		return "***" + s[i:]
	}

	return Subject(s)
}

func Token() string { return "[REDACTED_TOKEN]" }
