package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"custodial-ledger/internal/core/ports/mocks"
	"custodial-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func testRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestJWTAuth_ValidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenService(ctrl)

	userID := uuid.New()
	tokens.EXPECT().Validate("good-token").Return(userID, nil)

	r := gin.New()
	r.Use(JWTAuth(tokens))
	r.GET("/ping", func(c *gin.Context) {
		got, ok := UserID(c)
		require.True(t, ok)
		assert.Equal(t, userID, got)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenService(ctrl)

	r := testRouter(JWTAuth(tokens))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_003")
}

func TestJWTAuth_BadToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenService(ctrl)
	tokens.EXPECT().Validate("bad").Return(uuid.Nil, assert.AnError)

	r := testRouter(JWTAuth(tokens))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := testRouter(RequestID())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestID_HonorsCallerSupplied(t *testing.T) {
	r := testRouter(RequestID())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "given-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "given-id", w.Header().Get("X-Request-ID"))
}

func TestRecovery_TurnsPanicInto500(t *testing.T) {
	log := logger.NewWithWriter("error", discard{})
	r := gin.New()
	r.Use(Recovery(log))
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockRateLimitStore(ctrl)

	calls := int64(0)
	store.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ string, _ time.Duration) (int64, error) {
			calls++
			return calls, nil
		}).Times(3)

	r := testRouter(RateLimit(store, 2, time.Minute))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_001")
}

func TestRateLimit_StoreDownFailsOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockRateLimitStore(ctrl)
	store.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), assert.AnError)

	r := testRouter(RateLimit(store, 1, time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
