package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
	"hotel-booking/widget"
)

// RoomQuerier is the room data the room endpoints read.
type RoomQuerier interface {
	Available(ctx context.Context, checkIn, checkOut time.Time, guests int) ([]models.Room, error)
	GetAll(ctx context.Context) ([]models.Room, error)
}

type RoomController struct {
	Rooms RoomQuerier
	Log   *logrus.Logger
}

func NewRoomController(rooms RoomQuerier, log *logrus.Logger) *RoomController {
	return &RoomController{Rooms: rooms, Log: log}
}

// ----------------------------------------------------
// POST /api/rooms/availability
// ----------------------------------------------------
func (rc *RoomController) CheckAvailability(c *gin.Context) {
	var req widget.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	dates, err := widget.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		var ve *widget.ValidationError
		if errors.As(err, &ve) {
			utils.JSONError(c, http.StatusBadRequest, ve.Message)
			return
		}
		utils.JSONError(c, http.StatusBadRequest, widget.MsgSelectValidDates)
		return
	}
	if req.Guests < 1 {
		utils.JSONError(c, http.StatusBadRequest, widget.MsgSelectGuests)
		return
	}

	rooms, err := rc.Rooms.Available(c.Request.Context(), dates.CheckIn, dates.CheckOut, req.Guests)
	if err != nil {
		rc.Log.WithError(err).Error("availability query failed")
		utils.JSONError(c, http.StatusInternalServerError, "failed to check availability")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, services.ToWidgetRooms(rooms))
}

// ----------------------------------------------------
// GET /api/rooms
// ----------------------------------------------------
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Rooms.GetAll(c.Request.Context())
	if err != nil {
		rc.Log.WithError(err).Error("list rooms failed")
		utils.JSONError(c, http.StatusInternalServerError, "failed to list rooms")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, services.ToWidgetRooms(rooms))
}
