package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticator signs users in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type AuthController struct {
	Auth   Authenticator
	Guests services.GuestDirectory
	Log    *logrus.Logger
}

func NewAuthController(auth Authenticator, guests services.GuestDirectory, log *logrus.Logger) *AuthController {
	return &AuthController{Auth: auth, Guests: guests, Log: log}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		utils.JSONError(c, http.StatusBadRequest, "email and password required")
		return
	}

	token, user, err := ac.Auth.Login(c.Request.Context(), payload.Email, payload.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		ac.Log.WithError(err).Error("login failed")
		utils.JSONError(c, http.StatusInternalServerError, "failed to sign in")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// POST /api/auth/sync-user-metadata
func (ac *AuthController) SyncUserMetadata(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	guest, err := ac.Guests.EnsureForUser(c.Request.Context(), services.UserInfo{
		AuthUserID: user.UserID,
		Email:      user.Email,
		Name:       user.Name,
	})
	if err != nil {
		ac.Log.WithError(err).WithField("user_id", user.UserID).Error("user sync failed")
		utils.JSONError(c, http.StatusInternalServerError, "failed to sync user")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, services.ToWidgetGuest(*guest))
}
