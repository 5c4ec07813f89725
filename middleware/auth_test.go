package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking/models"
	"hotel-booking/services"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupTestTokens() *services.TokenService {
	return services.NewTokenService("test-access-secret-key-123456789", time.Hour)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func issueToken(t *testing.T, tokens *services.TokenService) string {
	t.Helper()
	token, err := tokens.Generate(models.User{ID: 42, Email: "ada@example.com", FullName: "Ada", Role: models.UserRoleGuest})
	require.NoError(t, err)
	return token
}

func TestRequireAuth_Success(t *testing.T) {
	tokens := setupTestTokens()
	router := setupTestRouter()
	token := issueToken(t, tokens)

	router.GET("/protected", RequireAuth(tokens, quietLogger()), func(c *gin.Context) {
		user, exists := GetUserContext(c)
		require.True(t, exists)
		id := CurrentIdentity(c)
		require.NotNil(t, id)
		assert.Equal(t, token, id.Token)
		c.JSON(http.StatusOK, gin.H{"user_id": user.UserID, "email": user.Email})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user_42")
	assert.Contains(t, w.Body.String(), "ada@example.com")
}

func TestRequireAuth_Failures(t *testing.T) {
	tokens := setupTestTokens()
	expired := services.NewTokenService("test-access-secret-key-123456789", -time.Minute)
	expiredToken := issueToken(t, expired)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "MISSING_AUTH_HEADER"},
		{"wrong scheme", "Basic abc", "INVALID_AUTH_FORMAT"},
		{"no token", "Bearer", "INVALID_AUTH_FORMAT"},
		{"blank token", "Bearer   ", "INVALID_AUTH_FORMAT"},
		{"garbage", "Bearer not.a.token", "INVALID_TOKEN"},
		{"expired", "Bearer " + expiredToken, "TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/protected", RequireAuth(tokens, quietLogger()), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
			assert.NotContains(t, w.Body.String(), "should not reach here")
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := setupTestTokens()
	router := setupTestRouter()
	router.GET("/open", OptionalAuth(tokens), func(c *gin.Context) {
		if id := CurrentIdentity(c); id != nil {
			c.String(http.StatusOK, id.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"signed in", "Bearer " + issueToken(t, tokens), "user_42"},
		{"no header", "", "anonymous"},
		{"invalid token", "Bearer bogus", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/open", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}
