package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking/middleware"
	"hotel-booking/services"
	"hotel-booking/utils"
	"hotel-booking/widget"
)

// WidgetController serves one booking entry point's widget to the browser.
// Each browser session owns a widget.Widget kept in the registry.
type WidgetController struct {
	Sessions *services.SessionRegistry
	Log      *logrus.Logger
}

func NewWidgetController(sessions *services.SessionRegistry, log *logrus.Logger) *WidgetController {
	return &WidgetController{Sessions: sessions, Log: log}
}

const (
	errRoomNotInResults = "room is not part of the current results"
	errNoGuestDialog    = "no guest information is being collected"
)

type searchPayload struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Guests   int    `json:"guests"`
}

type selectRoomPayload struct {
	RoomID uint `json:"roomId" binding:"required"`
}

type guestInfoPayload struct {
	Values map[string]string `json:"values"`
}

// startSession returns the caller's session, starting a new one when the
// header names no live session. Only a search starts sessions.
func (wc *WidgetController) startSession(c *gin.Context) *services.Session {
	s := wc.Sessions.GetOrCreate(c.GetHeader(middleware.SessionHeader))
	c.Header(middleware.SessionHeader, s.ID)
	return s
}

// session returns the caller's live session, or nil.
func (wc *WidgetController) session(c *gin.Context) *services.Session {
	s, ok := wc.Sessions.Get(c.GetHeader(middleware.SessionHeader))
	if !ok {
		return nil
	}
	c.Header(middleware.SessionHeader, s.ID)
	return s
}

// respond writes data together with whatever the widget queued for display.
// s may be nil when the caller has no session.
func respond(c *gin.Context, s *services.Session, code int, data gin.H) {
	notes, redirect := []widget.Notification{}, ""
	if s != nil {
		notes, redirect = s.Outbox.Drain()
	}
	data["notifications"] = notes
	if redirect != "" {
		data["redirect"] = redirect
	}
	if code >= 400 {
		data["success"] = false
		c.JSON(code, data)
		return
	}
	utils.JSONSuccess(c, code, data)
}

func emptyState() widget.State {
	return widget.State{Rooms: []widget.Room{}}
}

// POST /api/widget/{entry}/search
func (wc *WidgetController) Search(c *gin.Context) {
	s := wc.startSession(c)

	var p searchPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		respond(c, s, http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	rooms, err := s.Widget.Search(c.Request.Context(), middleware.CurrentIdentity(c), widget.SearchRequest{
		CheckIn:  p.CheckIn,
		CheckOut: p.CheckOut,
		Guests:   p.Guests,
	})

	var ve *widget.ValidationError
	var ne *widget.NotificationError
	switch {
	case err == nil:
		title := ""
		if len(rooms) == 0 {
			title = widget.MsgNoAvailableSuites
		}
		respond(c, s, http.StatusOK, gin.H{
			"rooms":     rooms,
			"noResults": len(rooms) == 0,
			"title":     title,
		})
	case errors.As(err, &ve):
		respond(c, s, http.StatusUnprocessableEntity, gin.H{"error": ve.Message})
	case errors.Is(err, widget.ErrStaleSearch):
		respond(c, s, http.StatusConflict, gin.H{"error": "superseded by a newer search"})
	case errors.As(err, &ne):
		respond(c, s, http.StatusBadGateway, gin.H{"error": ne.Message})
	default:
		wc.Log.WithError(err).WithField("session_id", s.ID).Error("widget search failed")
		respond(c, s, http.StatusInternalServerError, gin.H{"error": widget.MsgAvailabilityFailed})
	}
}

// POST /api/widget/{entry}/select-room
func (wc *WidgetController) SelectRoom(c *gin.Context) {
	s := wc.session(c)

	var p selectRoomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		respond(c, s, http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}

	if s == nil {
		respond(c, nil, http.StatusNotFound, gin.H{"error": errRoomNotInResults})
		return
	}

	decision, err := s.Widget.SelectRoom(c.Request.Context(), middleware.CurrentIdentity(c), p.RoomID)
	var ne *widget.NotificationError
	switch {
	case err == nil:
		data := gin.H{"decision": decision}
		if decision.Step == widget.StepCollectGuestInfo {
			data["dialogFields"] = s.Widget.State().DialogFields
		}
		respond(c, s, http.StatusOK, data)
	case errors.Is(err, widget.ErrRoomNotFound):
		respond(c, s, http.StatusNotFound, gin.H{"error": errRoomNotInResults})
	case errors.Is(err, widget.ErrBookingInProgress):
		respond(c, s, http.StatusConflict, gin.H{"error": "booking already in progress"})
	case errors.As(err, &ne):
		respond(c, s, http.StatusBadGateway, gin.H{"error": ne.Message})
	default:
		wc.Log.WithError(err).WithField("session_id", s.ID).Error("room selection failed")
		respond(c, s, http.StatusInternalServerError, gin.H{"error": widget.MsgBookingFailed})
	}
}

// POST /api/widget/{entry}/guest-info
func (wc *WidgetController) SubmitGuestInfo(c *gin.Context) {
	s := wc.session(c)

	var p guestInfoPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		respond(c, s, http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if s == nil {
		respond(c, nil, http.StatusConflict, gin.H{"error": errNoGuestDialog})
		return
	}

	decision, fieldErrs, err := s.Widget.SubmitGuestInfo(p.Values)
	switch {
	case errors.Is(err, widget.ErrNoGuestDialog):
		respond(c, s, http.StatusConflict, gin.H{"error": errNoGuestDialog})
	case len(fieldErrs) > 0:
		respond(c, s, http.StatusUnprocessableEntity, gin.H{"error": "Please correct the highlighted fields.", "fieldErrors": fieldErrs})
	case err != nil:
		respond(c, s, http.StatusBadGateway, gin.H{"error": widget.MsgCheckoutFailed})
	default:
		respond(c, s, http.StatusOK, gin.H{"decision": decision})
	}
}

// DELETE /api/widget/{entry}/guest-info
func (wc *WidgetController) CancelGuestInfo(c *gin.Context) {
	s := wc.session(c)
	if s == nil {
		respond(c, nil, http.StatusOK, gin.H{"state": emptyState()})
		return
	}
	s.Widget.CancelGuestInfo()
	respond(c, s, http.StatusOK, gin.H{"state": s.Widget.State()})
}

// GET /api/widget/{entry}/state
func (wc *WidgetController) State(c *gin.Context) {
	s := wc.session(c)
	if s == nil {
		respond(c, nil, http.StatusOK, gin.H{"state": emptyState()})
		return
	}
	respond(c, s, http.StatusOK, gin.H{"state": s.Widget.State()})
}
