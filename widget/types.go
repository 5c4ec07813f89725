// Package widget implements the booking widget flow: date validation and the
// availability search, the guest-data completeness gate, the guest-info dialog
// and the checkout handoff. Both booking entry points (the quick booking widget
// and the booking section) drive the same Flow and differ only in Options.
package widget

import "strings"

// Guest profile field names as they travel in JSON and in missing-field lists.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldNationality = "nationality"
	FieldIDType      = "idType"
	FieldIDNumber    = "idNumber"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldCountry     = "country"
)

// DialogFields is every field the guest-info dialog knows how to render, in
// display order.
var DialogFields = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldNationality,
	FieldIDType,
	FieldIDNumber,
	FieldAddress,
	FieldCity,
	FieldCountry,
}

// DefaultRequiredFields must all be non-empty before checkout may proceed.
var DefaultRequiredFields = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldNationality,
	FieldIDNumber,
}

// RoomType is the read-only room type embedded in availability results.
type RoomType struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Code         string   `json:"code"`
	BasePrice    float64  `json:"basePrice"`
	MaxOccupancy int      `json:"maxOccupancy"`
	Amenities    []string `json:"amenities"`
}

// Room is a candidate room returned by an availability search.
type Room struct {
	ID         uint     `json:"id"`
	RoomNumber string   `json:"roomNumber"`
	Floor      string   `json:"floor"`
	Status     string   `json:"status"`
	RoomType   RoomType `json:"roomType"`
}

// GuestProfile is the partially completed guest record of a signed-in user.
type GuestProfile struct {
	ID          uint   `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	IDType      string `json:"idType,omitempty"`
	IDNumber    string `json:"idNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
}

// Field returns the value of the named field, or "" for unknown names.
func (p *GuestProfile) Field(name string) string {
	if p == nil {
		return ""
	}
	switch name {
	case FieldName:
		return p.Name
	case FieldEmail:
		return p.Email
	case FieldPhone:
		return p.Phone
	case FieldNationality:
		return p.Nationality
	case FieldIDType:
		return p.IDType
	case FieldIDNumber:
		return p.IDNumber
	case FieldAddress:
		return p.Address
	case FieldCity:
		return p.City
	case FieldCountry:
		return p.Country
	}
	return ""
}

// SetField sets the named field. Unknown names are ignored.
func (p *GuestProfile) SetField(name, value string) {
	switch name {
	case FieldName:
		p.Name = value
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	case FieldNationality:
		p.Nationality = value
	case FieldIDType:
		p.IDType = value
	case FieldIDNumber:
		p.IDNumber = value
	case FieldAddress:
		p.Address = value
	case FieldCity:
		p.City = value
	case FieldCountry:
		p.Country = value
	}
}

// MissingFields returns the required fields that are blank in p, keeping the
// order of required. A nil profile is missing everything.
func MissingFields(p *GuestProfile, required []string) []string {
	missing := make([]string, 0, len(required))
	for _, name := range required {
		if strings.TrimSpace(p.Field(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Identity is the signed-in user as seen by the widget.
type Identity struct {
	UserID string
	Email  string
	Name   string
	// Token is forwarded to the backend as a bearer token.
	Token string
}
