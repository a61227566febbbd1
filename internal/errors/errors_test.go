package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := FormatError("unsupported file format: .txt")
	wrapped := Wrap(inner, "failed to load upload")

	assert.Equal(t, CodeFormatError, GetCode(wrapped))
	assert.True(t, IsFormat(wrapped))
	assert.False(t, IsComputation(wrapped))
	assert.Equal(t, "failed to load upload: unsupported file format: .txt", wrapped.Error())
}

func TestWrapForeignErrorIsInternal(t *testing.T) {
	wrapped := Wrapf(io.ErrUnexpectedEOF, "reading %s", "survey.csv")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
}

func TestCodeSurvivesStdlibWrapping(t *testing.T) {
	err := fmt.Errorf("normality: %w", ComputationErrorf("need at least %d values, got %d", 3, 2))
	assert.True(t, IsComputation(err))
	assert.Equal(t, "UNKNOWN", GetCode(io.EOF))
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, Wrapf(nil, "ignored %d", 1))
}

func TestInternalErrorIsNotAUserError(t *testing.T) {
	err := InternalError("the charts could not be rendered")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.False(t, IsFormat(err))
	assert.False(t, IsComputation(err))
}
