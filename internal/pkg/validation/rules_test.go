package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ada@example.com", true},
		{"  Ada@Example.COM ", true},
		{"a.b+c@sub.example.ng", true},
		{"", false},
		{"   ", false},
		{"ada@example", false},
		{"ada example@x.com", false},
		{"@example.com", false},
		{"ada@@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", SanitizeEmail("  Ada@Example.COM\n"))
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(2).Validate())
	assert.False(t, NewStringValidation("").Validate())
	assert.False(t, NewStringValidation("a").WithMinLength(NameMinLength).Validate())
	assert.True(t, NewStringValidation("Ọlá").WithMinLength(2).WithMaxLength(3).Validate())
	assert.False(t, NewStringValidation("abcd").WithMaxLength(3).Validate())
}
