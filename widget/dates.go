package widget

import (
	"strings"
	"time"
)

// DateLayout is the wire format of check-in and check-out dates.
const DateLayout = "2006-01-02"

// DateRange is a validated stay; CheckOut is strictly after CheckIn.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Nights is the number of nights in the stay.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// ParseDateRange applies the date rules in order and stops at the first
// failure.
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	if checkIn == "" || checkOut == "" {
		return DateRange{}, &ValidationError{Message: MsgSelectBothDates}
	}

	in, out := strings.TrimSpace(checkIn), strings.TrimSpace(checkOut)
	if in == "" || out == "" {
		return DateRange{}, &ValidationError{Message: MsgSelectValidDates}
	}

	inDate, err := time.Parse(DateLayout, in)
	if err != nil {
		return DateRange{}, &ValidationError{Message: MsgSelectValidDates}
	}
	outDate, err := time.Parse(DateLayout, out)
	if err != nil {
		return DateRange{}, &ValidationError{Message: MsgSelectValidDates}
	}

	if !outDate.After(inDate) {
		return DateRange{}, &ValidationError{Message: MsgCheckOutAfterIn}
	}

	return DateRange{CheckIn: inDate, CheckOut: outDate}, nil
}
