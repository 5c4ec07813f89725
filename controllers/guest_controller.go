package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type GuestController struct {
	Guests services.GuestDirectory
	Log    *logrus.Logger
}

func NewGuestController(guests services.GuestDirectory, log *logrus.Logger) *GuestController {
	return &GuestController{Guests: guests, Log: log}
}

// ----------------------------------------------------
// GET /api/admin/users?search=&limit=
// Admins may search anyone; other users only themselves.
// ----------------------------------------------------
func (gc *GuestController) SearchUsers(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	search := strings.TrimSpace(c.Query("search"))
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}

	if user.Role != models.UserRoleAdmin && search != user.UserID && !strings.EqualFold(search, user.Email) {
		utils.JSONError(c, http.StatusForbidden, "you may only look up your own profile")
		return
	}

	guests, err := gc.Guests.Search(c.Request.Context(), search, services.NormalizeLimit(limit))
	if err != nil {
		gc.Log.WithError(err).WithField("search", search).Error("guest search failed")
		utils.JSONError(c, http.StatusInternalServerError, "failed to search users")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, services.ToWidgetGuests(guests))
}
