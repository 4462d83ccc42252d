package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/safasahar/backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func corsRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(cfg))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func doRequest(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	cfg := config.New()
	cfg.Env = "production"
	cfg.AllowedOrigins = []string{"https://app.example.com/"}

	w := doRequest(corsRouter(cfg), http.MethodGet, "https://app.example.com")
	assert.Equal(t, http.StatusOK, w.Code)
	// Origins are compared with trailing slashes stripped
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOriginInProduction(t *testing.T) {
	cfg := config.New()
	cfg.Env = "production"
	cfg.AllowedOrigins = []string{"https://app.example.com"}

	w := doRequest(corsRouter(cfg), http.MethodGet, "https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHeadersComeFromConfig(t *testing.T) {
	cfg := config.New()
	cfg.AllowedMethods = []string{"GET", "POST"}
	cfg.AllowedHeaders = []string{"Content-Type", "Authorization"}

	w := doRequest(corsRouter(cfg), http.MethodGet, "http://localhost:3000")
	assert.Equal(t, strings.Join(cfg.AllowedMethods, ", "), w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, strings.Join(cfg.AllowedHeaders, ", "), w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	cfg := config.New()

	w := doRequest(corsRouter(cfg), http.MethodOptions, "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
