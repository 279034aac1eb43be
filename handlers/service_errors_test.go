package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chrimar3/MVP-Hotel-sub001/services"
	"github.com/chrimar3/MVP-Hotel-sub001/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "validation error",
			err:            services.ErrInvalidRequest,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "bad_request",
		},
		{
			name:           "wrapped validation error",
			err:            services.WrapError(services.ErrorTypeValidation, "rating out of range", nil),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "bad_request",
		},
		{
			name:           "store unavailable",
			err:            services.ErrStoreUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "store_unavailable",
		},
		{
			name:           "corrupt snapshot",
			err:            services.WrapStore("snapshot decode failed", errors.New("unexpected EOF")),
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "store_unavailable",
		},
		{
			name:           "provider error stays internal",
			err:            services.ErrProviderTimeout,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
		{
			name:           "internal error",
			err:            services.WrapInternal("checkpoint loop", errors.New("boom")),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
		{
			name:           "plain error defaults to internal",
			err:            errors.New("something odd"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			HandleServiceError(w, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response utils.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.expectedError, response.Error)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()

		HandleServiceError(w, nil, logger)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("internal errors never leak details", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := services.WrapInternal("provider secret sauce", errors.New("api key sk-123 rejected"))
		HandleServiceError(w, err, logger)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "sk-123")
		assert.Contains(t, w.Body.String(), "An internal error occurred")
	})

	t.Run("validation details are exposed", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := services.NewDomainError(services.ErrorTypeValidation, "rating out of range", nil).
			WithDetail("field", "rating")
		HandleServiceError(w, err, logger)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "rating", response.Details["field"])
	})
}

func TestHandleValidationError(t *testing.T) {
	logger := zap.NewNop()

	t.Run("structured validation error exposes fields", func(t *testing.T) {
		type probe struct {
			Rating int `validate:"required,min=1,max=5"`
		}
		err := utils.ValidateStruct(&probe{Rating: 9})
		require.Error(t, err)

		w := httptest.NewRecorder()
		HandleValidationError(w, err, logger)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "bad_request", response.Error)
		assert.Equal(t, "Validation failed", response.Message)
		assert.Contains(t, response.Details, "Rating")
	})

	t.Run("plain error becomes message-only 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleValidationError(w, errors.New("body too large"), logger)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "body too large", response.Message)
		assert.Empty(t, response.Details)
	})
}
