package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(DocumentError, "backup failed", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "disk full")
	assert.NotEmpty(t, err.Suggestions)
}

func TestIsMatchesByCodeOnly(t *testing.T) {
	err := New(LLMAuth, "missing key")
	assert.True(t, errors.Is(err, Sentinel(LLMAuth)))
	assert.False(t, errors.Is(err, Sentinel(LLMTransport)))
}

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "DOC_001", ErrorCodeString(DocumentError))
	assert.Equal(t, "LLM_002", ErrorCodeString(LLMAuth))
}
