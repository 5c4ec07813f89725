package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Level is the severity of a notification.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Notification is a transient message shown to the user.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// Notifier shows notifications.
type Notifier interface {
	Notify(n Notification)
}

// Navigator performs client-side navigation.
type Navigator interface {
	Navigate(url string)
}

// Widget is one booking entry point instance: the search form, the room
// selection modal and the guest-info dialog. It is safe for concurrent use;
// its lock is never held while the backend is being called.
type Widget struct {
	flow      *Flow
	notifier  Notifier
	navigator Navigator

	mu           sync.Mutex
	searchSeq    uint64
	loadingRooms bool
	booking      bool
	modalOpen    bool
	rooms        []Room
	search       SearchRequest
	dialog       *GuestDialog
	pending      *Selection
}

// New creates a widget driving flow.
func New(flow *Flow, notifier Notifier, navigator Navigator) *Widget {
	return &Widget{
		flow:      flow,
		notifier:  notifier,
		navigator: navigator,
	}
}

// State is a snapshot of what the widget currently shows.
type State struct {
	LoadingRooms bool          `json:"isLoadingRooms"`
	Booking      bool          `json:"isBooking"`
	ModalOpen    bool          `json:"modalOpen"`
	Rooms        []Room        `json:"rooms"`
	NoResults    bool          `json:"noResults"`
	Search       SearchRequest `json:"search"`
	DialogOpen   bool          `json:"dialogOpen"`
	DialogFields []DialogField `json:"dialogFields,omitempty"`
}

// State returns a snapshot of the widget.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := State{
		LoadingRooms: w.loadingRooms,
		Booking:      w.booking,
		ModalOpen:    w.modalOpen,
		Rooms:        append([]Room{}, w.rooms...),
		NoResults:    w.modalOpen && len(w.rooms) == 0,
		Search:       w.search,
		DialogOpen:   w.dialog != nil,
	}
	if w.dialog != nil {
		s.DialogFields = w.dialog.Fields()
	}
	return s
}

// IsLoadingRooms reports whether the latest search is still in flight.
func (w *Widget) IsLoadingRooms() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadingRooms
}

// IsBooking reports whether a room selection is being processed.
func (w *Widget) IsBooking() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.booking
}

// Search validates the input and loads candidate rooms. Validation errors
// are returned for inline display. Backend failures are notified, clear the
// room list and are returned too. A search overtaken by a newer one returns
// ErrStaleSearch and leaves the widget untouched.
func (w *Widget) Search(ctx context.Context, id *Identity, req SearchRequest) ([]Room, error) {
	if err := ValidateSearch(req); err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.searchSeq++
	seq := w.searchSeq
	w.loadingRooms = true
	w.mu.Unlock()

	rooms, err := w.runSearch(ctx, id, req, seq)

	w.mu.Lock()
	if seq != w.searchSeq {
		w.mu.Unlock()
		return nil, ErrStaleSearch
	}
	if err != nil {
		w.rooms = []Room{}
		w.modalOpen = false
		w.mu.Unlock()
		w.notifyError(err, MsgAvailabilityFailed)
		return nil, err
	}
	w.rooms = rooms
	w.search = req
	w.modalOpen = true
	w.mu.Unlock()

	return rooms, nil
}

func (w *Widget) runSearch(ctx context.Context, id *Identity, req SearchRequest, seq uint64) (rooms []Room, err error) {
	defer func() {
		if r := recover(); r != nil {
			rooms = nil
			err = &NotificationError{Message: MsgAvailabilityFailed, Err: fmt.Errorf("panic: %v", r)}
		}
		w.mu.Lock()
		if seq == w.searchSeq {
			w.loadingRooms = false
		}
		w.mu.Unlock()
	}()
	return w.flow.CheckAvailability(ctx, id, req)
}

// CloseModal discards the current results.
func (w *Widget) CloseModal() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.modalOpen = false
	w.rooms = nil
}

// SelectRoom continues the booking with the room roomID from the current
// results, for the dates and guest count those results were searched with.
// It navigates to sign-in or to checkout, or opens the guest-info dialog.
// Failures are notified and returned. A room outside the current results
// gives ErrRoomNotFound, and a selection while another one is in progress
// gives ErrBookingInProgress.
func (w *Widget) SelectRoom(ctx context.Context, id *Identity, roomID uint) (Decision, error) {
	w.mu.Lock()
	if w.booking {
		w.mu.Unlock()
		return Decision{}, ErrBookingInProgress
	}
	room, ok := w.roomLocked(roomID)
	if !ok {
		w.mu.Unlock()
		return Decision{}, ErrRoomNotFound
	}
	w.booking = true
	sel := Selection{
		Room:     room,
		CheckIn:  w.search.CheckIn,
		CheckOut: w.search.CheckOut,
		Guests:   w.search.Guests,
	}
	w.mu.Unlock()

	decision, err := w.runSelect(ctx, id, sel)
	if err != nil {
		w.notifyError(err, MsgBookingFailed)
		return Decision{}, err
	}

	switch decision.Step {
	case StepSignIn:
		w.navigate(decision.RedirectURL)
	case StepCollectGuestInfo:
		w.mu.Lock()
		w.dialog = NewGuestDialog(decision.MissingFields, decision.ExistingData)
		w.pending = &sel
		w.mu.Unlock()
	case StepCheckout:
		w.mu.Lock()
		w.modalOpen = false
		w.mu.Unlock()
		w.navigate(decision.CheckoutURL)
	}
	return decision, nil
}

// roomLocked finds roomID in the current results. w.mu must be held.
func (w *Widget) roomLocked(roomID uint) (Room, bool) {
	for _, r := range w.rooms {
		if r.ID == roomID {
			return r, true
		}
	}
	return Room{}, false
}

func (w *Widget) runSelect(ctx context.Context, id *Identity, sel Selection) (d Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = Decision{}
			err = &NotificationError{Message: MsgBookingFailed, Err: fmt.Errorf("panic: %v", r)}
		}
		w.mu.Lock()
		w.booking = false
		w.mu.Unlock()
	}()
	return w.flow.SelectRoom(ctx, id, sel)
}

// SubmitGuestInfo validates the dialog values. Field errors keep the dialog
// open; on success the dialog closes and the widget navigates to checkout.
func (w *Widget) SubmitGuestInfo(values map[string]string) (Decision, FieldErrors, error) {
	w.mu.Lock()
	dialog, pending := w.dialog, w.pending
	w.mu.Unlock()
	if dialog == nil || pending == nil {
		return Decision{}, nil, ErrNoGuestDialog
	}

	decision, fieldErrs, err := w.flow.CompleteGuestInfo(*pending, dialog, values)
	if len(fieldErrs) > 0 {
		return Decision{}, fieldErrs, nil
	}
	if err != nil {
		w.notifyError(err, MsgCheckoutFailed)
		return Decision{}, nil, err
	}

	w.mu.Lock()
	w.dialog = nil
	w.pending = nil
	w.modalOpen = false
	w.mu.Unlock()

	w.navigate(decision.CheckoutURL)
	return decision, nil, nil
}

// CancelGuestInfo closes the dialog without submitting anything.
func (w *Widget) CancelGuestInfo() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dialog = nil
	w.pending = nil
}

func (w *Widget) notifyError(err error, fallback string) {
	if w.notifier == nil {
		return
	}
	n := Notification{Level: LevelError, Message: fallback}
	var ne *NotificationError
	if errors.As(err, &ne) {
		n.Title = ne.Title
		n.Message = ne.Message
	}
	w.notifier.Notify(n)
}

func (w *Widget) navigate(url string) {
	if w.navigator != nil {
		w.navigator.Navigate(url)
	}
}
