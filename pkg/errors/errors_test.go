package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "fetching orders")

	assert.Equal(t, CodeDependency, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "DEPENDENCY_ERROR: fetching orders", err.Error())
}

func TestAs_FindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeValidation, "store id required")
	wrapped := fmt.Errorf("handling event: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeValidation, typed.Code())
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(New(CodeValidation, "bad payload")))
	assert.False(t, Retryable(New(CodeNotFound, "store missing")))
	assert.True(t, Retryable(New(CodeDependency, "remote down")))
	assert.True(t, Retryable(stdErrors.New("untagged")))
}

func TestDump_IncludesChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("root"), "outer")

	d := Dump(err)
	assert.Equal(t, CodeInternal, d.Code)
	assert.Len(t, d.Chain, 2)
}
