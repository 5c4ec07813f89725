package widget

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Options configures a Flow.
type Options struct {
	// RequiredFields must be non-empty before checkout. Defaults to
	// DefaultRequiredFields.
	RequiredFields []string
	CheckoutPath   string
	SignInPath     string
	// ReturnPath is where sign-in sends the user back to.
	ReturnPath string
	// SyncUser makes the backend create the user's guest record before the
	// completeness check. A failing sync aborts the selection.
	SyncUser bool
}

// QuickBookingOptions is the quick booking widget: it syncs the user record
// before checking guest data.
func QuickBookingOptions() Options {
	return Options{SyncUser: true}
}

// BookingSectionOptions is the landing page booking section: no user sync.
func BookingSectionOptions() Options {
	return Options{SyncUser: false}
}

func (o Options) withDefaults() Options {
	if o.RequiredFields == nil {
		o.RequiredFields = append([]string(nil), DefaultRequiredFields...)
	}
	if o.CheckoutPath == "" {
		o.CheckoutPath = "/checkout"
	}
	if o.SignInPath == "" {
		o.SignInPath = "/sign-in"
	}
	if o.ReturnPath == "" {
		o.ReturnPath = "/"
	}
	return o
}

// Flow runs the booking steps against a Backend. It holds no per-user state
// and is safe for concurrent use.
type Flow struct {
	backend Backend
	opts    Options
	logger  *logrus.Logger
}

// NewFlow creates a flow. A nil logger discards log output.
func NewFlow(backend Backend, opts Options, logger *logrus.Logger) *Flow {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Flow{
		backend: backend,
		opts:    opts.withDefaults(),
		logger:  logger,
	}
}

// Options returns the effective options.
func (f *Flow) Options() Options {
	return f.opts
}

// SearchRequest is the raw user input of an availability search.
type SearchRequest struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Guests   int    `json:"guests"`
}

// ValidateSearch applies the date rules and then the guest count rule.
func ValidateSearch(req SearchRequest) error {
	if _, err := ParseDateRange(req.CheckIn, req.CheckOut); err != nil {
		return err
	}
	if req.Guests < 1 {
		return &ValidationError{Message: MsgSelectGuests}
	}
	return nil
}

// CheckAvailability validates req and asks the backend for candidate rooms.
// Input problems come back as *ValidationError without any backend call;
// backend failures as *NotificationError.
func (f *Flow) CheckAvailability(ctx context.Context, id *Identity, req SearchRequest) ([]Room, error) {
	if err := ValidateSearch(req); err != nil {
		return nil, err
	}

	rooms, err := f.backend.AvailableRooms(ctx, id, AvailabilityRequest{
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
	})
	if err != nil {
		f.logger.WithFields(logrus.Fields{
			"check_in":  req.CheckIn,
			"check_out": req.CheckOut,
			"guests":    req.Guests,
		}).WithError(err).Warn("Availability check failed")
		return nil, &NotificationError{
			Title:   "Availability check failed",
			Message: availabilityMessage(err),
			Err:     err,
		}
	}
	if rooms == nil {
		rooms = []Room{}
	}
	return rooms, nil
}

// GuestInfoCheck is the result of the completeness gate.
type GuestInfoCheck struct {
	MissingFields []string      `json:"missingFields"`
	ExistingData  *GuestProfile `json:"existingData"`
}

// CheckUserGuestInfo reports which required fields the user's guest profile
// lacks. It never fails: a missing record or a failed lookup both mean every
// required field has to be collected.
func (f *Flow) CheckUserGuestInfo(ctx context.Context, id *Identity) GuestInfoCheck {
	if id == nil || id.UserID == "" {
		return GuestInfoCheck{MissingFields: []string{}}
	}

	all := append([]string(nil), f.opts.RequiredFields...)

	guests, err := f.backend.FindGuests(ctx, id, id.UserID, 1)
	if err != nil {
		f.logger.WithField("user_id", id.UserID).WithError(err).
			Warn("Guest lookup failed, collecting all required fields")
		return GuestInfoCheck{MissingFields: all}
	}
	if len(guests) == 0 {
		return GuestInfoCheck{MissingFields: all}
	}

	existing := guests[0]
	return GuestInfoCheck{
		MissingFields: MissingFields(&existing, f.opts.RequiredFields),
		ExistingData:  &existing,
	}
}

// Selection is a chosen room together with the search it came from.
type Selection struct {
	Room     Room   `json:"room"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Guests   int    `json:"guests"`
}

// Step is the next thing the user has to do after selecting a room.
type Step string

const (
	StepSignIn           Step = "sign_in"
	StepCollectGuestInfo Step = "collect_guest_info"
	StepCheckout         Step = "checkout"
)

// Decision is the outcome of a room selection.
type Decision struct {
	Step          Step          `json:"step"`
	RedirectURL   string        `json:"redirectUrl,omitempty"`
	CheckoutURL   string        `json:"checkoutUrl,omitempty"`
	MissingFields []string      `json:"missingFields,omitempty"`
	ExistingData  *GuestProfile `json:"existingData,omitempty"`
}

// SelectRoom decides how a room selection continues: sign in, collect the
// missing guest fields, or go straight to checkout.
func (f *Flow) SelectRoom(ctx context.Context, id *Identity, sel Selection) (Decision, error) {
	if id == nil || id.UserID == "" {
		return Decision{Step: StepSignIn, RedirectURL: f.SignInURL()}, nil
	}

	if f.opts.SyncUser {
		if err := f.backend.SyncUser(ctx, id); err != nil {
			f.logger.WithField("user_id", id.UserID).WithError(err).Error("User sync failed")
			return Decision{}, &NotificationError{
				Title:   "Booking failed",
				Message: MsgSyncFailed,
				Err:     err,
			}
		}
	}

	check := f.CheckUserGuestInfo(ctx, id)
	if len(check.MissingFields) > 0 {
		return Decision{
			Step:          StepCollectGuestInfo,
			MissingFields: check.MissingFields,
			ExistingData:  check.ExistingData,
		}, nil
	}

	var guest GuestProfile
	if check.ExistingData != nil {
		guest = *check.ExistingData
	}
	checkoutURL, err := f.Checkout(sel, guest)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Step: StepCheckout, CheckoutURL: checkoutURL}, nil
}

// CompleteGuestInfo submits the dialog and, when valid, builds the checkout
// URL with the merged profile.
func (f *Flow) CompleteGuestInfo(sel Selection, dialog *GuestDialog, values map[string]string) (Decision, FieldErrors, error) {
	guest, errs := dialog.Submit(values)
	if len(errs) > 0 {
		return Decision{}, errs, nil
	}
	checkoutURL, err := f.Checkout(sel, guest)
	if err != nil {
		return Decision{}, nil, err
	}
	return Decision{Step: StepCheckout, CheckoutURL: checkoutURL}, nil, nil
}

// Checkout builds the checkout handoff URL.
func (f *Flow) Checkout(sel Selection, guest GuestProfile) (string, error) {
	u, err := BuildCheckoutURL(f.opts.CheckoutPath, Handoff{
		Room:      sel.Room,
		CheckIn:   sel.CheckIn,
		CheckOut:  sel.CheckOut,
		Guests:    sel.Guests,
		GuestInfo: guest,
	})
	if err != nil {
		return "", &NotificationError{
			Title:   "Checkout failed",
			Message: MsgCheckoutFailed,
			Err:     fmt.Errorf("build checkout url: %w", err),
		}
	}
	return u, nil
}

// SignInURL is the sign-in redirect with the return path attached.
func (f *Flow) SignInURL() string {
	return f.opts.SignInPath + "?callbackUrl=" + url.QueryEscape(f.opts.ReturnPath)
}
