package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimitPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewRateLimitPerIP(1, 1, 16, time.Minute))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	// burst of 1 exhausted, next request in the same instant is rejected
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1111"))

	// other IPs have their own limiter
	require.Equal(t, http.StatusOK, do("10.0.0.2:1111"))
}
