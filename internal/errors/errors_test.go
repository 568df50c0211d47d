package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := IOError("data/weather.csv", fmt.Errorf("permission denied"))
	wrapped := Wrap(base, "failed to load weather")

	assert.Equal(t, CodeIOError, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "failed to load weather")
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(cause, "step 3")

	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("feature table: %w", NotFound("counter folder data/x"))

	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, CodeNotFound, GetCode(Wrap(err, "load")))
}

func TestWithCode(t *testing.T) {
	sentinel := stderrors.New("unsupported cluster count")
	err := WithCode(CodeConfigInvalid, sentinel)

	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "UNKNOWN", GetCode(sentinel))
	assert.False(t, IsAppError(sentinel))
}
