package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crmhub/crmhub/backend/go-services/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2)) // generous rate
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("GET", "/ok", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, w2.Code)
	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest("GET", "/limited", nil))
	require.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("GET", "/limited", nil))
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
	require.Equal(t, "1", w2.Header().Get("Retry-After"))

	// at 0.5 rps one token is back after two seconds
	time.Sleep(2100 * time.Millisecond)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest("GET", "/limited", nil))
	require.Equal(t, http.StatusOK, w3.Code)
}

func TestRateLimitMiddleware_IgnoresActorFromUntrustedPeer(t *testing.T) {
	gateways, err := ParseCIDRs([]string{"10.1.0.0/16"})
	require.NoError(t, err)
	r := gin.New()
	r.Use(TrustedActor(gateways), RateLimitMiddleware(1, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("GET", "/u", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set(ActorHeader, fmt.Sprintf("user-%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	require.Equal(t, 19, limited)
}

func TestRateLimitMiddleware_KeysByActorFromGateway(t *testing.T) {
	gateways, err := ParseCIDRs([]string{"10.1.2.3"})
	require.NoError(t, err)
	r := gin.New()
	r.Use(TrustedActor(gateways), RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	send := func(actor string) int {
		req := httptest.NewRequest("GET", "/u", nil)
		req.RemoteAddr = "10.1.2.3:5000"
		req.Header.Set(ActorHeader, actor)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, send("user-123"))
	require.Equal(t, http.StatusTooManyRequests, send("user-123"))
	// same gateway, different actor: separate bucket
	require.Equal(t, http.StatusOK, send("user-456"))
}

func TestParseCIDRs(t *testing.T) {
	nets, err := ParseCIDRs([]string{"10.0.0.0/8", " 192.168.1.5 ", "", "::1"})
	require.NoError(t, err)
	require.Len(t, nets, 3)
	require.True(t, fromGateway("10.20.30.40", nets))
	require.True(t, fromGateway("192.168.1.5", nets))
	require.False(t, fromGateway("192.168.1.6", nets))
	require.True(t, fromGateway("::1", nets))

	_, err = ParseCIDRs([]string{"not-a-net"})
	require.Error(t, err)
	_, err = ParseCIDRs([]string{"10.0.0.0/99"})
	require.Error(t, err)
}
