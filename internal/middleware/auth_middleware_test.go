package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinwoo-dev/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func request(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := setupAuthTestRouter()

	pair, err := util.GenerateTokenPair(7, "user", "user@example.com", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	w := request(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := setupAuthTestRouter()

	w := request(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := setupAuthTestRouter()

	w := request(r, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r := setupAuthTestRouter()

	pair, err := util.GenerateTokenPair(7, "user", "user@example.com", testSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	w := request(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	r := setupAuthTestRouter()

	pair, err := util.GenerateTokenPair(7, "user", "user@example.com", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	w := request(r, "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r := setupAuthTestRouter()

	pair, err := util.GenerateTokenPair(7, "user", "user@example.com", "other-secret", time.Minute, time.Hour)
	require.NoError(t, err)

	w := request(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_INVALID")
}
