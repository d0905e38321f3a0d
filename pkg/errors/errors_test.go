package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{404, ErrorTypeNotFound},
		{410, ErrorTypeNotFound},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{403, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			err := FromStatus(tt.code, "https://lensdump.com/i/x")
			require.NotNil(t, err)
			assert.Equal(t, tt.want, err.Type)
			assert.Equal(t, tt.code, err.Code)
			assert.Contains(t, err.Error(), "https://lensdump.com/i/x")
		})
	}

	assert.Nil(t, FromStatus(200, ""))
	assert.Nil(t, FromStatus(304, ""))
}

func TestWrapAndTypeOf(t *testing.T) {
	err := Wrap(ErrorTypeNetwork, io.ErrUnexpectedEOF, "reading body")
	wrapped := fmt.Errorf("fetch page: %w", err)

	assert.Equal(t, ErrorTypeNetwork, TypeOf(wrapped))
	assert.True(t, stderrors.Is(wrapped, io.ErrUnexpectedEOF))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(stderrors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrorTypeNetwork))
	assert.True(t, IsRetryable(ErrorTypeRateLimit))
	assert.True(t, IsRetryable(ErrorTypeServerError))
	assert.False(t, IsRetryable(ErrorTypeNotFound))
	assert.False(t, IsRetryable(ErrorTypeParsing))
	assert.False(t, IsRetryable(ErrorTypeUnknown))

	assert.True(t, IsRetryableStatusCode(0))
	assert.True(t, IsRetryableStatusCode(502))
	assert.False(t, IsRetryableStatusCode(404))
	assert.False(t, IsRetryableStatusCode(400))
}
