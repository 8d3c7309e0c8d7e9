package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterRegistersPatterns(t *testing.T) {
	r := New()
	r.GET("/api/v1/surveys", func(w http.ResponseWriter, req *http.Request) {})
	r.POST("/api/v1/surveys", func(w http.ResponseWriter, req *http.Request) {})

	assert.Equal(t, []string{
		"GET /api/v1/surveys",
		"POST /api/v1/surveys",
	}, r.Patterns())
}

func TestRouterDispatchesByMethod(t *testing.T) {
	r := New()
	r.GET("/api/v1/surveys", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("list"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/surveys", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "list", rec.Body.String())

	// A registered path with the wrong method is rejected by the mux.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/surveys", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterPathValues(t *testing.T) {
	r := New()
	r.GET("/api/v1/surveys/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(req.PathValue("id")))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/surveys/run-42", nil))
	assert.Equal(t, "run-42", rec.Body.String())
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, colorGreen, statusColor(200))
	assert.Equal(t, colorCyan, statusColor(301))
	assert.Equal(t, colorYellow, statusColor(404))
	assert.Equal(t, colorRed, statusColor(500))
}
