package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerServesRoot(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("AUDIT_LOG_ENABLED", "false")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	w := httptest.NewRecorder()
	Handler(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Contact API is running!"}`, w.Body.String())

	w = httptest.NewRecorder()
	Handler(w, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
