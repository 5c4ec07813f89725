package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// AvailabilityRequest is the body of an availability search.
type AvailabilityRequest struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Guests   int    `json:"guests"`
}

// Backend is the hotel API the flow talks to. id may be nil for anonymous
// calls.
type Backend interface {
	AvailableRooms(ctx context.Context, id *Identity, req AvailabilityRequest) ([]Room, error)
	FindGuests(ctx context.Context, id *Identity, search string, limit int) ([]GuestProfile, error)
	SyncUser(ctx context.Context, id *Identity) error
}

// HTTPBackend implements Backend against the hotel REST API.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend creates a backend rooted at baseURL, e.g. "http://localhost:8080".
func NewHTTPBackend(baseURL string, timeout time.Duration) *HTTPBackend {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// AvailableRooms posts the search to /api/rooms/availability.
func (b *HTTPBackend) AvailableRooms(ctx context.Context, id *Identity, req AvailabilityRequest) ([]Room, error) {
	var rooms []Room
	if err := b.do(ctx, http.MethodPost, "/api/rooms/availability", id, req, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// FindGuests looks up guest profiles through /api/admin/users.
func (b *HTTPBackend) FindGuests(ctx context.Context, id *Identity, search string, limit int) ([]GuestProfile, error) {
	q := url.Values{}
	q.Set("search", search)
	q.Set("limit", strconv.Itoa(limit))

	var guests []GuestProfile
	if err := b.do(ctx, http.MethodGet, "/api/admin/users?"+q.Encode(), id, nil, &guests); err != nil {
		return nil, err
	}
	return guests, nil
}

// SyncUser asks the backend to make sure the user's guest row exists.
func (b *HTTPBackend) SyncUser(ctx context.Context, id *Identity) error {
	return b.do(ctx, http.MethodPost, "/api/auth/sync-user-metadata", id, nil, nil)
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, id *Identity, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != nil && id.Token != "" {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON error body still yields a StatusError below.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}
