package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@example.com"))
	assert.True(t, IsValidEmail("  ana.souza+appointments@clinic.example.org  "))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("a@b"))
}
