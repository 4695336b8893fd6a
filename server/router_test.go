package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elliekim312/youtube-dashboard/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubHandler struct {
	searched bool
}

func (s *stubHandler) Search(ctx *gin.Context) {
	s.searched = true
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": []string{}, "count": 0})
}

func (s *stubHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestRouterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &stubHandler{}
	router := server.InitiateRouter(server.RouterConfig{RequestTimeout: time.Second}, h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/videos/search?keyword=go", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, h.searched)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/videos/search", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := server.InitiateRouter(server.RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, &stubHandler{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
