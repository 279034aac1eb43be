package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCacheAdmin struct {
	clearCalls int
	sweepCalls int
	cleared    int
	swept      int
}

func (s *stubCacheAdmin) Clear() int {
	s.clearCalls++
	return s.cleared
}

func (s *stubCacheAdmin) Sweep() int {
	s.sweepCalls++
	return s.swept
}

func TestCacheHandler_HandleClear(t *testing.T) {
	admin := &stubCacheAdmin{cleared: 7}
	handler := NewCacheHandler(admin, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil)
	w := httptest.NewRecorder()
	handler.HandleClear(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, admin.clearCalls)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["cleared"])
}

func TestCacheHandler_HandleSweep(t *testing.T) {
	t.Run("reports expired entry count", func(t *testing.T) {
		admin := &stubCacheAdmin{swept: 3}
		handler := NewCacheHandler(admin, zap.NewNop())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cache/sweep", nil)
		w := httptest.NewRecorder()
		handler.HandleSweep(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, admin.sweepCalls)

		var response map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(3), data["swept"])
	})

	t.Run("zero swept when nothing expired", func(t *testing.T) {
		handler := NewCacheHandler(&stubCacheAdmin{}, zap.NewNop())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cache/sweep", nil)
		w := httptest.NewRecorder()
		handler.HandleSweep(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(0), data["swept"])
	})
}
