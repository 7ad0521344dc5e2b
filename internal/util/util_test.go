package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	assert.True(t, Contains("b", []string{"a", "b", "c"}))
	assert.False(t, Contains("z", []string{"a", "b", "c"}))
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny([]string{"x", "b"}, []string{"a", "b", "c"}))
	assert.False(t, ContainsAny([]string{"x", "y"}, []string{"a", "b", "c"}))
}

func TestLoggingErrorMsgPreservesMessage(t *testing.T) {
	wrapped := LoggingErrorMsg(errors.New("boom"), "context")
	assert.ErrorContains(t, wrapped, "context")
	assert.ErrorContains(t, wrapped, "boom")
}
