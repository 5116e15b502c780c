package redact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactor(t *testing.T) {
	r := New("AIzaSecret", "", "pc-key")

	err := errors.New(`HTTP 400: API key not valid: AIzaSecret (pc-key)`)
	assert.Equal(t, "HTTP 400: API key not valid: [REDACTED] ([REDACTED])", r.Error(err))
	assert.Equal(t, "", r.Error(nil))
}

func TestRedactor_NoSecrets(t *testing.T) {
	var nilRedactor *Redactor
	assert.Equal(t, "plain", New().String("plain"))
	assert.Equal(t, "plain", nilRedactor.String("plain"))
}
