package cnpj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"formatted", "12.345/678-90", "1234567890"},
		{"fully formatted", "11.222.333/0001-81", "11222333000181"},
		{"already clean", "11222333000181", "11222333000181"},
		{"empty", "", ""},
		{"no digits", "abc", ""},
		{"digits among letters", "a1b2c3", "123"},
		{"whitespace", " 12 34 ", "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
