package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubject_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "long_id", in: "user-12345", want: "user***"},
		{name: "exact_len_4", in: "abcd", want: "***"},
		{name: "short", in: "ab", want: "***"},
		{name: "empty", in: "", want: "***"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, Subject(tt.in))
		})
	}
}

func TestShop_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "shopify_domain", in: "acme-store.myshopify.com", want: "***.myshopify.com"},
		{name: "no_dot_falls_back", in: "shop-12345", want: "shop***"},
		{name: "short_no_dot", in: "s1", want: "***"},
		{name: "leading_dot_falls_back", in: ".hidden", want: ".hid***"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, Shop(tt.in))
		})
	}
}

// Литерал для токенов неизменен — на него завязаны фильтры логов.
func TestToken_Literal(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[REDACTED_TOKEN]", Token())
}
