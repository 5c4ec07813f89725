package widget

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Checkout query parameter names.
const (
	ParamRoom      = "room"
	ParamCheckIn   = "checkIn"
	ParamCheckOut  = "checkOut"
	ParamGuests    = "guests"
	ParamGuestInfo = "guestInfo"
)

// Handoff is everything the checkout page needs to continue the booking.
type Handoff struct {
	Room      Room         `json:"room"`
	CheckIn   string       `json:"checkIn"`
	CheckOut  string       `json:"checkOut"`
	Guests    int          `json:"guests"`
	GuestInfo GuestProfile `json:"guestInfo"`
}

// BuildCheckoutURL encodes h as query parameters on path, keeping any query
// path already carries. No validation is done here.
func BuildCheckoutURL(path string, h Handoff) (string, error) {
	room, err := json.Marshal(h.Room)
	if err != nil {
		return "", fmt.Errorf("failed to encode room: %w", err)
	}
	guest, err := json.Marshal(h.GuestInfo)
	if err != nil {
		return "", fmt.Errorf("failed to encode guest info: %w", err)
	}

	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid checkout path: %w", err)
	}

	q := u.Query()
	q.Set(ParamRoom, string(room))
	q.Set(ParamCheckIn, h.CheckIn)
	q.Set(ParamCheckOut, h.CheckOut)
	q.Set(ParamGuests, strconv.Itoa(h.Guests))
	q.Set(ParamGuestInfo, string(guest))

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseCheckoutURL decodes a URL produced by BuildCheckoutURL.
func ParseCheckoutURL(raw string) (Handoff, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Handoff{}, fmt.Errorf("invalid checkout url: %w", err)
	}
	return ParseCheckoutQuery(u.Query())
}

// ParseCheckoutQuery decodes checkout query parameters.
func ParseCheckoutQuery(q url.Values) (Handoff, error) {
	var h Handoff

	if err := json.Unmarshal([]byte(q.Get(ParamRoom)), &h.Room); err != nil {
		return Handoff{}, fmt.Errorf("invalid room parameter: %w", err)
	}
	if err := json.Unmarshal([]byte(q.Get(ParamGuestInfo)), &h.GuestInfo); err != nil {
		return Handoff{}, fmt.Errorf("invalid guestInfo parameter: %w", err)
	}

	guests, err := strconv.Atoi(q.Get(ParamGuests))
	if err != nil {
		return Handoff{}, fmt.Errorf("invalid guests parameter: %w", err)
	}
	h.Guests = guests
	h.CheckIn = q.Get(ParamCheckIn)
	h.CheckOut = q.Get(ParamCheckOut)

	return h, nil
}
