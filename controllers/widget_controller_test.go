package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking/middleware"
	"hotel-booking/services"
	"hotel-booking/widget"
)

type stubBackend struct {
	mu       sync.Mutex
	rooms    []widget.Room
	availErr error
	guests   []widget.GuestProfile
	syncErr  error
	syncs    int
}

func (b *stubBackend) AvailableRooms(context.Context, *widget.Identity, widget.AvailabilityRequest) ([]widget.Room, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rooms, b.availErr
}

func (b *stubBackend) FindGuests(context.Context, *widget.Identity, string, int) ([]widget.GuestProfile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.guests, nil
}

func (b *stubBackend) SyncUser(context.Context, *widget.Identity) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncs++
	return b.syncErr
}

func suite204() widget.Room {
	return widget.Room{ID: 7, RoomNumber: "204", Floor: "2", Status: "available",
		RoomType: widget.RoomType{ID: 3, Name: "Deluxe Suite", Code: "DLX", BasePrice: 2500, MaxOccupancy: 4, Amenities: []string{}}}
}

func newWidgetRouter(backend widget.Backend, opts widget.Options, user *middleware.UserContext) *gin.Engine {
	router, _ := newWidgetRouterWithSessions(backend, opts, user)
	return router
}

func newWidgetRouterWithSessions(backend widget.Backend, opts widget.Options, user *middleware.UserContext) (*gin.Engine, *services.SessionRegistry) {
	flow := widget.NewFlow(backend, opts, quietLogger())
	sessions := services.NewSessionRegistry(flow, time.Hour, quietLogger())
	wc := NewWidgetController(sessions, quietLogger())

	router := setupTestRouter()
	g := router.Group("/w", withUser(user))
	g.POST("/search", wc.Search)
	g.POST("/select-room", wc.SelectRoom)
	g.POST("/guest-info", wc.SubmitGuestInfo)
	g.DELETE("/guest-info", wc.CancelGuestInfo)
	g.GET("/state", wc.State)
	return router, sessions
}

type widgetResponse struct {
	Success       bool                  `json:"success"`
	Error         string                `json:"error"`
	Notifications []widget.Notification `json:"notifications"`
	Data          struct {
		Rooms         []widget.Room         `json:"rooms"`
		NoResults     bool                  `json:"noResults"`
		Title         string                `json:"title"`
		Decision      widget.Decision       `json:"decision"`
		DialogFields  []widget.DialogField  `json:"dialogFields"`
		Redirect      string                `json:"redirect"`
		Notifications []widget.Notification `json:"notifications"`
		State         widget.State          `json:"state"`
	} `json:"data"`
	FieldErrors widget.FieldErrors `json:"fieldErrors"`
}

func call(t *testing.T, router http.Handler, method, path, session string, body any) (*httptest.ResponseRecorder, widgetResponse) {
	t.Helper()
	headers := map[string]string{}
	if session != "" {
		headers[middleware.SessionHeader] = session
	}
	w := doJSON(t, router, method, path, body, headers)

	var resp widgetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

var stay = map[string]any{"checkIn": "2025-03-10", "checkOut": "2025-03-12", "guests": 2}

func TestWidgetController_SearchEchoesSession(t *testing.T) {
	router := newWidgetRouter(&stubBackend{rooms: []widget.Room{suite204()}}, widget.QuickBookingOptions(), nil)

	w, resp := call(t, router, http.MethodPost, "/w/search", "", stay)
	require.Equal(t, http.StatusOK, w.Code)
	sid := w.Header().Get(middleware.SessionHeader)
	require.NotEmpty(t, sid)
	require.Len(t, resp.Data.Rooms, 1)
	assert.False(t, resp.Data.NoResults)

	w, resp = call(t, router, http.MethodGet, "/w/state", sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sid, w.Header().Get(middleware.SessionHeader))
	assert.True(t, resp.Data.State.ModalOpen)
	assert.Len(t, resp.Data.State.Rooms, 1)
}

func TestWidgetController_SearchNoResults(t *testing.T) {
	router := newWidgetRouter(&stubBackend{}, widget.QuickBookingOptions(), nil)

	w, resp := call(t, router, http.MethodPost, "/w/search", "", stay)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Data.NoResults)
	assert.Equal(t, widget.MsgNoAvailableSuites, resp.Data.Title)
	assert.Empty(t, resp.Data.Rooms)
}

func TestWidgetController_SearchValidation(t *testing.T) {
	backend := &stubBackend{}
	router := newWidgetRouter(backend, widget.QuickBookingOptions(), nil)

	w, resp := call(t, router, http.MethodPost, "/w/search", "", map[string]any{"checkIn": "2025-03-12", "checkOut": "2025-03-10", "guests": 2})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, widget.MsgCheckOutAfterIn, resp.Error)
	assert.Empty(t, resp.Notifications)
}

func TestWidgetController_SearchBackendFailure(t *testing.T) {
	backend := &stubBackend{availErr: &widget.StatusError{StatusCode: http.StatusUnauthorized}}
	router := newWidgetRouter(backend, widget.QuickBookingOptions(), nil)

	w, resp := call(t, router, http.MethodPost, "/w/search", "", stay)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, widget.MsgSignInRequired, resp.Error)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, widget.LevelError, resp.Notifications[0].Level)
}

func TestWidgetController_SelectRoomSignedOutRedirects(t *testing.T) {
	router := newWidgetRouter(&stubBackend{rooms: []widget.Room{suite204()}}, widget.QuickBookingOptions(), nil)

	w, _ := call(t, router, http.MethodPost, "/w/search", "", stay)
	sid := w.Header().Get(middleware.SessionHeader)

	w, resp := call(t, router, http.MethodPost, "/w/select-room", sid, map[string]any{"roomId": 7})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, widget.StepSignIn, resp.Data.Decision.Step)
	assert.Equal(t, "/sign-in?callbackUrl=%2F", resp.Data.Redirect)
}

func TestWidgetController_SelectUnknownRoom(t *testing.T) {
	router := newWidgetRouter(&stubBackend{rooms: []widget.Room{suite204()}}, widget.QuickBookingOptions(), guestUser)

	w, _ := call(t, router, http.MethodPost, "/w/search", "", stay)
	sid := w.Header().Get(middleware.SessionHeader)

	w, _ = call(t, router, http.MethodPost, "/w/select-room", sid, map[string]any{"roomId": 99})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = call(t, router, http.MethodPost, "/w/select-room", sid, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWidgetController_GuestInfoThenCheckout(t *testing.T) {
	backend := &stubBackend{
		rooms:  []widget.Room{suite204()},
		guests: []widget.GuestProfile{{Name: "Ada", Phone: "+44", Nationality: "GB", IDNumber: "P1"}},
	}
	router := newWidgetRouter(backend, widget.QuickBookingOptions(), guestUser)

	w, _ := call(t, router, http.MethodPost, "/w/search", "", stay)
	sid := w.Header().Get(middleware.SessionHeader)

	w, resp := call(t, router, http.MethodPost, "/w/select-room", sid, map[string]any{"roomId": 7})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, widget.StepCollectGuestInfo, resp.Data.Decision.Step)
	assert.Equal(t, []string{widget.FieldEmail}, resp.Data.Decision.MissingFields)
	require.Len(t, resp.Data.DialogFields, 1)
	assert.Equal(t, widget.FieldEmail, resp.Data.DialogFields[0].Name)

	w, resp = call(t, router, http.MethodPost, "/w/guest-info", sid, map[string]any{"values": map[string]string{"email": "not-an-email"}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Please enter a valid email address", resp.FieldErrors[widget.FieldEmail])

	w, resp = call(t, router, http.MethodPost, "/w/guest-info", sid, map[string]any{"values": map[string]string{"email": " ada@example.com "}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, widget.StepCheckout, resp.Data.Decision.Step)
	assert.Equal(t, resp.Data.Decision.CheckoutURL, resp.Data.Redirect)

	h, err := widget.ParseCheckoutURL(resp.Data.Redirect)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", h.GuestInfo.Email)
	assert.Equal(t, "Ada", h.GuestInfo.Name)
	assert.Equal(t, suite204(), h.Room)
	assert.Equal(t, 1, backend.syncs)

	w, _ = call(t, router, http.MethodPost, "/w/guest-info", sid, map[string]any{"values": map[string]string{}})
	assert.Equal(t, http.StatusConflict, w.Code, "dialog is closed after checkout")
}

func TestWidgetController_CancelGuestInfo(t *testing.T) {
	backend := &stubBackend{rooms: []widget.Room{suite204()}}
	router := newWidgetRouter(backend, widget.BookingSectionOptions(), guestUser)

	w, _ := call(t, router, http.MethodPost, "/w/search", "", stay)
	sid := w.Header().Get(middleware.SessionHeader)

	_, resp := call(t, router, http.MethodPost, "/w/select-room", sid, map[string]any{"roomId": 7})
	assert.Equal(t, widget.StepCollectGuestInfo, resp.Data.Decision.Step)
	assert.Zero(t, backend.syncs, "the booking section does not sync users")

	w, resp = call(t, router, http.MethodDelete, "/w/guest-info", sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, resp.Data.State.DialogOpen)
	assert.True(t, resp.Data.State.ModalOpen)
}

func TestWidgetController_SyncFailureNotifies(t *testing.T) {
	backend := &stubBackend{rooms: []widget.Room{suite204()}, syncErr: &widget.StatusError{StatusCode: 500}}
	router := newWidgetRouter(backend, widget.QuickBookingOptions(), guestUser)

	w, _ := call(t, router, http.MethodPost, "/w/search", "", stay)
	sid := w.Header().Get(middleware.SessionHeader)

	w, resp := call(t, router, http.MethodPost, "/w/select-room", sid, map[string]any{"roomId": 7})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, widget.MsgSyncFailed, resp.Error)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, widget.MsgSyncFailed, resp.Notifications[0].Message)

	_, resp = call(t, router, http.MethodGet, "/w/state", sid, nil)
	assert.False(t, resp.Data.State.Booking)
	assert.Empty(t, resp.Data.Notifications, "notifications are delivered once")
}

func TestWidgetController_OnlySearchStartsSessions(t *testing.T) {
	router, sessions := newWidgetRouterWithSessions(&stubBackend{rooms: []widget.Room{suite204()}}, widget.QuickBookingOptions(), guestUser)

	for i := 0; i < 5; i++ {
		w, resp := call(t, router, http.MethodGet, "/w/state", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get(middleware.SessionHeader))
		assert.False(t, resp.Data.State.ModalOpen)
		assert.Empty(t, resp.Data.State.Rooms)

		w, _ = call(t, router, http.MethodDelete, "/w/guest-info", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, _ := call(t, router, http.MethodPost, "/w/select-room", "", map[string]any{"roomId": 7})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = call(t, router, http.MethodPost, "/w/guest-info", "", map[string]any{"values": map[string]string{}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, sessions.Len())

	w, _ = call(t, router, http.MethodPost, "/w/search", "", stay)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sessions.Len())
}

func TestWidgetController_SelectRoomFromEarlierSearch(t *testing.T) {
	backend := &stubBackend{
		rooms:  []widget.Room{suite204()},
		guests: []widget.GuestProfile{{Name: "Ada", Email: "ada@example.com", Phone: "+44", Nationality: "GB", IDNumber: "P1"}},
	}
	router := newWidgetRouter(backend, widget.QuickBookingOptions(), guestUser)

	w, _ := call(t, router, http.MethodPost, "/w/search", "", stay)
	sid := w.Header().Get(middleware.SessionHeader)

	family := widget.Room{ID: 9, RoomNumber: "301", Floor: "3", Status: "available",
		RoomType: widget.RoomType{ID: 4, Name: "Family", Code: "FAM", BasePrice: 3000, MaxOccupancy: 4, Amenities: []string{}}}
	backend.mu.Lock()
	backend.rooms = []widget.Room{family}
	backend.mu.Unlock()

	summer := map[string]any{"checkIn": "2025-07-01", "checkOut": "2025-07-05", "guests": 4}
	w, _ = call(t, router, http.MethodPost, "/w/search", sid, summer)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := call(t, router, http.MethodPost, "/w/select-room", sid, map[string]any{"roomId": 7})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, resp.Data.Redirect)

	w, resp = call(t, router, http.MethodPost, "/w/select-room", sid, map[string]any{"roomId": 9})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, widget.StepCheckout, resp.Data.Decision.Step)

	h, err := widget.ParseCheckoutURL(resp.Data.Redirect)
	require.NoError(t, err)
	assert.Equal(t, family, h.Room)
	assert.Equal(t, "2025-07-01", h.CheckIn)
	assert.Equal(t, 4, h.Guests)
}
