package services

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"hotel-booking/models"
	"hotel-booking/widget"
)

// RoomFinder answers availability searches.
type RoomFinder interface {
	Available(ctx context.Context, checkIn, checkOut time.Time, guests int) ([]models.Room, error)
}

// GuestDirectory looks up and syncs guest rows.
type GuestDirectory interface {
	Search(ctx context.Context, search string, limit int) ([]models.Guest, error)
	EnsureForUser(ctx context.Context, user UserInfo) (*models.Guest, error)
}

// WidgetBackend serves the widget flow in-process. It mirrors the status
// codes the REST endpoints would return so the flow maps failures the same
// way for both transports.
type WidgetBackend struct {
	Rooms  RoomFinder
	Guests GuestDirectory
	Log    *logrus.Logger
}

func NewWidgetBackend(rooms RoomFinder, guests GuestDirectory, log *logrus.Logger) *WidgetBackend {
	return &WidgetBackend{Rooms: rooms, Guests: guests, Log: log}
}

var _ widget.Backend = (*WidgetBackend)(nil)

func (b *WidgetBackend) AvailableRooms(ctx context.Context, id *widget.Identity, req widget.AvailabilityRequest) ([]widget.Room, error) {
	dates, err := widget.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, &widget.StatusError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}
	if req.Guests < 1 {
		return nil, &widget.StatusError{StatusCode: http.StatusBadRequest, Message: widget.MsgSelectGuests}
	}

	rooms, err := b.Rooms.Available(ctx, dates.CheckIn, dates.CheckOut, req.Guests)
	if err != nil {
		b.Log.WithError(err).Error("availability query failed")
		return nil, &widget.StatusError{StatusCode: http.StatusInternalServerError, Message: "failed to check availability"}
	}
	return ToWidgetRooms(rooms), nil
}

func (b *WidgetBackend) FindGuests(ctx context.Context, id *widget.Identity, search string, limit int) ([]widget.GuestProfile, error) {
	if id == nil || id.UserID == "" {
		return nil, &widget.StatusError{StatusCode: http.StatusUnauthorized, Message: "unauthorized"}
	}

	guests, err := b.Guests.Search(ctx, search, limit)
	if err != nil {
		return nil, &widget.StatusError{StatusCode: http.StatusInternalServerError, Message: "failed to search guests"}
	}
	return ToWidgetGuests(guests), nil
}

func (b *WidgetBackend) SyncUser(ctx context.Context, id *widget.Identity) error {
	if id == nil || id.UserID == "" {
		return &widget.StatusError{StatusCode: http.StatusUnauthorized, Message: "unauthorized"}
	}

	_, err := b.Guests.EnsureForUser(ctx, UserInfo{AuthUserID: id.UserID, Email: id.Email, Name: id.Name})
	if err != nil {
		b.Log.WithError(err).WithField("auth_user_id", id.UserID).Error("user sync failed")
		return &widget.StatusError{StatusCode: http.StatusInternalServerError, Message: "failed to sync user"}
	}
	return nil
}

func ToWidgetRoomType(rt models.RoomType) widget.RoomType {
	amenities := []string(rt.Amenities)
	if amenities == nil {
		amenities = []string{}
	}
	return widget.RoomType{
		ID:           rt.ID,
		Name:         rt.Name,
		Code:         rt.Code,
		BasePrice:    rt.BasePrice,
		MaxOccupancy: rt.MaxOccupancy,
		Amenities:    amenities,
	}
}

func ToWidgetRooms(rooms []models.Room) []widget.Room {
	out := make([]widget.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, widget.Room{
			ID:         r.ID,
			RoomNumber: r.RoomNumber,
			Floor:      r.Floor,
			Status:     r.Status,
			RoomType:   ToWidgetRoomType(r.RoomType),
		})
	}
	return out
}

func ToWidgetGuest(g models.Guest) widget.GuestProfile {
	return widget.GuestProfile{
		ID:          g.ID,
		Name:        g.FullName,
		Email:       g.Email,
		Phone:       g.Phone,
		Nationality: g.Nationality,
		IDType:      g.IDType,
		IDNumber:    g.IDNumber,
		Address:     g.Address,
		City:        g.City,
		Country:     g.Country,
	}
}

func ToWidgetGuests(guests []models.Guest) []widget.GuestProfile {
	out := make([]widget.GuestProfile, 0, len(guests))
	for _, g := range guests {
		out = append(out, ToWidgetGuest(g))
	}
	return out
}

