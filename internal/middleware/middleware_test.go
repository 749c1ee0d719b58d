package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flow-board/internal/middleware"
	"flow-board/internal/repository/mocks"
)

const secret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.Auth(secret), func(c *gin.Context) {
		id, ok := middleware.CurrentUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func TestAuth(t *testing.T) {
	valid := signToken(t, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(time.Hour).Unix()}, secret)
	expired := signToken(t, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()}, secret)
	wrongKey := signToken(t, jwt.MapClaims{"user_id": 7}, "other")
	noUser := signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, secret)

	cases := []struct {
		name   string
		header string
		query  string
		code   int
	}{
		{name: "bearer header", header: "Bearer " + valid, code: http.StatusOK},
		{name: "query token", query: "?token=" + valid, code: http.StatusOK},
		{name: "missing", code: http.StatusUnauthorized},
		{name: "malformed header", header: "Token " + valid, code: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, code: http.StatusUnauthorized},
		{name: "wrong signature", header: "Bearer " + wrongKey, code: http.StatusUnauthorized},
		{name: "missing user_id", header: "Bearer " + noUser, code: http.StatusUnauthorized},
	}
	r := newAuthRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
			}
		})
	}
}

func TestAuth_EmptySecretPanics(t *testing.T) {
	assert.Panics(t, func() { middleware.Auth("") })
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stateRepo := new(mocks.StateRepository)
	r := gin.New()
	r.GET("/ping", middleware.RateLimit(stateRepo, 2, time.Minute), func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	stateRepo.On("CheckRateLimit", mock.Anything, mock.AnythingOfType("string"), 2, time.Minute).Return(false, nil).Once()
	stateRepo.On("CheckRateLimit", mock.Anything, mock.AnythingOfType("string"), 2, time.Minute).Return(true, nil).Once()
	stateRepo.On("CheckRateLimit", mock.Anything, mock.AnythingOfType("string"), 2, time.Minute).Return(false, assert.AnError).Once()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusInternalServerError}, codes)
	stateRepo.AssertExpectations(t)
}
