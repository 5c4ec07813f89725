package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hotel-booking/widget"
)

// Outbox collects what a widget wants shown or navigated to until the
// client picks it up.
type Outbox struct {
	mu            sync.Mutex
	notifications []widget.Notification
	redirect      string
}

func (o *Outbox) Notify(n widget.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notifications = append(o.notifications, n)
}

func (o *Outbox) Navigate(url string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.redirect = url
}

// Drain returns and clears the pending notifications and redirect.
func (o *Outbox) Drain() ([]widget.Notification, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	notes := o.notifications
	if notes == nil {
		notes = []widget.Notification{}
	}
	redirect := o.redirect
	o.notifications = nil
	o.redirect = ""
	return notes, redirect
}

// Session is one browser's widget instance.
type Session struct {
	ID     string
	Widget *widget.Widget
	Outbox *Outbox

	lastSeen time.Time
}

// SessionRegistry keeps the widget sessions of one booking entry point and
// expires them after ttl of inactivity.
type SessionRegistry struct {
	flow *widget.Flow
	ttl  time.Duration
	log  *logrus.Logger
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry(flow *widget.Flow, ttl time.Duration, log *logrus.Logger) *SessionRegistry {
	return &SessionRegistry{
		flow:     flow,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Flow is the flow every session of this registry drives.
func (r *SessionRegistry) Flow() *widget.Flow {
	return r.flow
}

// Get returns the live session with id and marks it as used.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.now().Sub(s.lastSeen) > r.ttl {
		delete(r.sessions, id)
		return nil, false
	}
	s.lastSeen = r.now()
	return s, true
}

// GetOrCreate returns the session with id, or a new session when id is
// empty, malformed, unknown or expired.
func (r *SessionRegistry) GetOrCreate(id string) *Session {
	if _, err := uuid.Parse(id); err == nil {
		if s, ok := r.Get(id); ok {
			return s
		}
	}

	outbox := &Outbox{}
	s := &Session{
		ID:       uuid.NewString(),
		Widget:   widget.New(r.flow, outbox, outbox),
		Outbox:   outbox,
		lastSeen: r.now(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.log.WithField("session_id", s.ID).Debug("widget session created")
	return s
}

// Len is the number of stored sessions, expired or not.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.WithField("removed", n).Debug("expired widget sessions swept")
			}
		}
	}
}
