package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash := HashPassword("correct horse battery staple")

	assert.NotEqual(t, "correct horse battery staple", hash)
	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	hash := HashPassword("correct horse battery staple")

	assert.False(t, VerifyPassword(hash, "incorrect horse battery staple"))
	assert.False(t, VerifyPassword(hash, ""))
}
