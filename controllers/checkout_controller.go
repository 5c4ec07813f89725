package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking/utils"
	"hotel-booking/widget"
)

// CheckoutSummary is what the checkout page shows for a handoff.
type CheckoutSummary struct {
	Room      widget.Room         `json:"room"`
	CheckIn   string              `json:"checkIn"`
	CheckOut  string              `json:"checkOut"`
	Nights    int                 `json:"nights"`
	Guests    int                 `json:"guests"`
	GuestInfo widget.GuestProfile `json:"guestInfo"`
	Total     float64             `json:"total"`
}

type CheckoutController struct {
	Log *logrus.Logger
}

func NewCheckoutController(log *logrus.Logger) *CheckoutController {
	return &CheckoutController{Log: log}
}

// GET /checkout?room=&checkIn=&checkOut=&guests=&guestInfo=
func (cc *CheckoutController) Summary(c *gin.Context) {
	h, err := widget.ParseCheckoutQuery(c.Request.URL.Query())
	if err != nil {
		cc.Log.WithError(err).Warn("bad checkout handoff")
		utils.JSONError(c, http.StatusBadRequest, widget.MsgCheckoutFailed)
		return
	}

	dates, err := widget.ParseDateRange(h.CheckIn, h.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	nights := dates.Nights()
	utils.JSONSuccess(c, http.StatusOK, CheckoutSummary{
		Room:      h.Room,
		CheckIn:   h.CheckIn,
		CheckOut:  h.CheckOut,
		Nights:    nights,
		Guests:    h.Guests,
		GuestInfo: h.GuestInfo,
		Total:     float64(nights) * h.Room.RoomType.BasePrice,
	})
}
