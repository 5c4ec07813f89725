package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
	"hotel-booking/widget"
)

type RoomTypeLister interface {
	GetAll(ctx context.Context) ([]models.RoomType, error)
}

type RoomTypeController struct {
	RoomTypes RoomTypeLister
	Log       *logrus.Logger
}

func NewRoomTypeController(types RoomTypeLister, log *logrus.Logger) *RoomTypeController {
	return &RoomTypeController{RoomTypes: types, Log: log}
}

// GET /api/room-types
func (rtc *RoomTypeController) GetRoomTypes(c *gin.Context) {
	types, err := rtc.RoomTypes.GetAll(c.Request.Context())
	if err != nil {
		rtc.Log.WithError(err).Error("list room types failed")
		utils.JSONError(c, http.StatusInternalServerError, "failed to list room types")
		return
	}

	out := make([]widget.RoomType, 0, len(types))
	for _, rt := range types {
		out = append(out, services.ToWidgetRoomType(rt))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}
