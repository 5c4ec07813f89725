package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking/services"
	"hotel-booking/widget"
)

// UserContextKey is the key used to store the signed-in user in the gin context.
const UserContextKey = "user"

// SessionHeader carries the widget session id in both directions.
const SessionHeader = "X-Widget-Session"

// UserContext is the authenticated user.
type UserContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Token  string `json:"-"`
}

// Identity converts the user into the identity the widget flow expects.
func (u UserContext) Identity() *widget.Identity {
	return &widget.Identity{UserID: u.UserID, Email: u.Email, Name: u.Name, Token: u.Token}
}

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	Validate(token string) (*services.Claims, error)
}

type authFailure struct {
	code    string
	message string
	err     string
}

var (
	errMissingHeader = authFailure{"MISSING_AUTH_HEADER", "Authorization header is required", "unauthorized"}
	errBadFormat     = authFailure{"INVALID_AUTH_FORMAT", "Invalid authorization header format. Expected: Bearer <token>", "unauthorized"}
	errEmptyToken    = authFailure{"INVALID_AUTH_FORMAT", "Token cannot be empty", "unauthorized"}
	errExpired       = authFailure{"TOKEN_EXPIRED", "Access token has expired. Please sign in again.", "token_expired"}
	errInvalid       = authFailure{"INVALID_TOKEN", "Invalid access token", "invalid_token"}
)

// authenticate resolves the bearer token of the request.
func authenticate(c *gin.Context, tokens TokenValidator) (UserContext, *authFailure) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return UserContext{}, &errMissingHeader
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return UserContext{}, &errBadFormat
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return UserContext{}, &errEmptyToken
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		if errors.Is(err, services.ErrExpiredToken) {
			return UserContext{}, &errExpired
		}
		return UserContext{}, &errInvalid
	}

	return UserContext{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
		Token:  token,
	}, nil
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(tokens TokenValidator, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, fail := authenticate(c, tokens)
		if fail != nil {
			log.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
				"code": fail.code,
			}).Warn("auth failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   fail.err,
				"message": fail.message,
				"code":    fail.code,
			})
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is sent and lets every
// request through. An invalid token is treated as signed out.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, fail := authenticate(c, tokens); fail == nil {
			c.Set(UserContextKey, user)
		}
		c.Next()
	}
}

// GetUserContext returns the user set by RequireAuth or OptionalAuth.
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}
	user, ok := value.(UserContext)
	return user, ok
}

// CurrentIdentity is the widget identity of the request, nil when signed out.
func CurrentIdentity(c *gin.Context) *widget.Identity {
	if user, ok := GetUserContext(c); ok {
		return user.Identity()
	}
	return nil
}
