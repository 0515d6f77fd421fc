package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew tests creating a new AppError
func TestNew(t *testing.T) {
	err := New(ErrCodeValidation, "validation failed")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeValidation, err.Code)
	assert.Equal(t, "validation failed", err.Message)
	assert.Nil(t, err.Err)
}

// TestWrap tests wrapping an existing error
func TestWrap(t *testing.T) {
	originalErr := errors.New("original error")
	err := Wrap(ErrCodeRenderFailed, "render failed", originalErr)

	assert.Equal(t, ErrCodeRenderFailed, err.Code)
	assert.Same(t, originalErr, err.Unwrap())
	assert.True(t, errors.Is(err, originalErr))
}

// TestAppError_Error tests the Error method
func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[E1001] invalid input", New(ErrCodeValidation, "invalid input").Error())
	assert.Equal(t, "[E4003] print failed: boom",
		Wrap(ErrCodePDFFailed, "print failed", errors.New("boom")).Error())
}

// TestAppError_HTTPStatus tests status code mapping
func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnknownSchema, http.StatusBadRequest},
		{ErrCodeUnsupportedFormat, http.StatusUnprocessableEntity},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodePDFFailed, http.StatusBadGateway},
		{ErrCodeRenderFailed, http.StatusInternalServerError},
		{ErrCodeDBQuery, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.code, "x").HTTPStatus())
		})
	}
}

// TestWithDetails tests attaching details
func TestWithDetails(t *testing.T) {
	err := ErrValidation("bad field").WithDetails(map[string]string{"field": "title"})
	assert.Equal(t, map[string]string{"field": "title"}, err.Details)
}

// TestConstructors tests the convenience constructors
func TestConstructors(t *testing.T) {
	assert.Equal(t, "saved report not found", ErrNotFound("saved report").Message)
	assert.Equal(t, ErrCodeUnsupportedFormat, ErrUnsupportedFormat("docx").Code)
	assert.Contains(t, ErrUnsupportedFormat("docx").Message, "docx")
	assert.Equal(t, ErrCodeInternal, ErrInternal("oops", nil).Code)
}

// TestAsAppError tests extraction through wrapped chains
func TestAsAppError(t *testing.T) {
	base := New(ErrCodeNotFound, "missing")
	wrapped := fmt.Errorf("loading: %w", base)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Same(t, base, appErr)
	assert.True(t, IsAppError(wrapped))
	assert.True(t, HasCode(wrapped, ErrCodeNotFound))
	assert.False(t, HasCode(wrapped, ErrCodeValidation))

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsAppError(nil))
}
