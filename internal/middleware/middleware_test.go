package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifora/internal/metrics"
	"lifora/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(tokens *services.TokenIssuer, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("lifora_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(LoadUser(tokens))
	r.GET("/login/:id", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(SessionUserID, c.Param("id"))
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	handlers := append(mw, func(c *gin.Context) {
		c.String(http.StatusOK, RequesterFrom(c).UserID)
	})
	r.GET("/whoami", handlers...)
	return r
}

func TestLoadUser_Bearer(t *testing.T) {
	tokens := services.NewTokenIssuer("k", time.Hour)
	tok, err := tokens.Issue("U1")
	require.NoError(t, err)
	r := newEngine(tokens, AuthRequired())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "U1", w.Body.String())
}

func TestLoadUser_Session(t *testing.T) {
	r := newEngine(services.NewTokenIssuer("k", time.Hour), AuthRequired())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/U7", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "U7", w.Body.String())
}

func TestAuthRequired_Rejects(t *testing.T) {
	r := newEngine(services.NewTokenIssuer("k", time.Hour), AuthRequired())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"authentication required"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type countingLimiter struct {
	counts map[string]int64
	err    error
}

func (l *countingLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	if l.err != nil {
		return false, 0, l.err
	}
	l.counts[key]++
	n := l.counts[key]
	return n <= limit, n, nil
}

func TestRateLimit(t *testing.T) {
	tokens := services.NewTokenIssuer("k", time.Hour)
	limiter := &countingLimiter{counts: map[string]int64{}}
	r := newEngine(tokens, AuthRequired(), RateLimit(limiter, "comment", 2, time.Minute))

	tok, err := tokens.Issue("U1")
	require.NoError(t, err)
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)
	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, int64(3), limiter.counts["comment:U1"])
}

func TestRateLimit_FailsOpen(t *testing.T) {
	tokens := services.NewTokenIssuer("k", time.Hour)
	limiter := &countingLimiter{err: errors.New("redis down")}
	r := newEngine(tokens, RateLimit(limiter, "comment", 1, time.Minute))

	tok, err := tokens.Issue("U1")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/comments/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/comments/:id", "200"))
	for _, id := range []string{"P1", "P2", "P3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/comments/"+id, nil))
	}
	after := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/comments/:id", "200"))
	assert.Equal(t, float64(3), after-before)
}
