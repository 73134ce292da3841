package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "not_found: product 7 has no record", New(CodeNotFound, "product 7 has no record").Error())
	assert.Equal(t, "internal", New(CodeInternal, "").Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeUnauthorized, CodeOf(New(CodeUnauthorized, "missing role")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain error")))

	wrapped := fmt.Errorf("verify checkpoint: %w", New(CodeInvalidProgression, "ordinal must increase"))
	assert.Equal(t, CodeInvalidProgression, CodeOf(wrapped))
	assert.True(t, Is(wrapped, CodeInvalidProgression))
	assert.False(t, Is(wrapped, CodeNotFound))
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, ToHTTPStatus(CodeUnauthorized))
	assert.Equal(t, http.StatusNotFound, ToHTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusConflict, ToHTTPStatus(CodeInvalidProgression))
	assert.Equal(t, http.StatusConflict, ToHTTPStatus(CodeConflict))
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(CodeBadRequest))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(Code("unknown")))
}
