package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	apperrors "github.com/allisson/filevault/internal/errors"
)

func ginTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		errorCode  string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid key", cryptoDomain.ErrInvalidKey, http.StatusUnprocessableEntity, "invalid_key"},
		{"missing key", cryptoDomain.ErrMissingKey, http.StatusInternalServerError, "missing_key"},
		{"key mismatch", cryptoDomain.ErrKeyMismatch, http.StatusBadRequest, "key_mismatch"},
		{"authentication failed", cryptoDomain.ErrAuthenticationFailed, http.StatusBadRequest, "authentication_failed"},
		{"invalid input", apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		{"wrapped not found", apperrors.Wrap(apperrors.ErrNotFound, "loading record"), http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := ginTestContext(t)
			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.statusCode, recorder.Code)
			assert.Equal(t, tt.errorCode, decodeError(t, recorder).Error)
		})
	}

	t.Run("internal error hides details", func(t *testing.T) {
		c, recorder := ginTestContext(t)
		HandleErrorGin(c, errors.New("db password is hunter2"), nil)

		response := decodeError(t, recorder)
		assert.NotContains(t, response.Message, "hunter2")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, recorder := ginTestContext(t)
		HandleErrorGin(c, nil, nil)
		assert.Empty(t, recorder.Body.Bytes())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	c, recorder := ginTestContext(t)
	HandleBadRequestGin(c, errors.New("malformed form"), nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "bad_request", decodeError(t, recorder).Error)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, recorder := ginTestContext(t)
	HandleValidationErrorGin(c, errors.New("file: cannot be blank"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, "validation_error", decodeError(t, recorder).Error)
}
