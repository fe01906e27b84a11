package session

import (
	"context"
	"errors"

	"ticketqr/internal/models"
)

var (
	ErrNoTicket = errors.New("session: no ticket generated yet")
	ErrNoID     = errors.New("session: missing session id")
	// ErrContention means concurrent writers kept conflicting; the caller may retry.
	ErrContention = errors.New("session: too much write contention")
)

// State is everything remembered for one visitor between requests.
type State struct {
	Draft       models.Draft            `json:"draft"`
	Errors      models.ValidationErrors `json:"errors,omitempty"`
	Ticket      *models.Ticket          `json:"ticket,omitempty"`
	Seq         uint64                  `json:"seq"`
	EncodeError string                  `json:"encode_error,omitempty"`
}

// Generated reports whether a ticket is available for preview and export.
func (s State) Generated() bool { return s.Ticket != nil }

// Store keeps State per session id. A missing id reads as an empty State.
// Update applies fn atomically with respect to other Updates on the same id;
// if fn returns an error nothing is written. fn may run more than once when a
// store retries a conflicting write, so it must only touch the State it is given.
type Store interface {
	Get(ctx context.Context, id string) (State, error)
	Update(ctx context.Context, id string, fn func(*State) error) (State, error)
}
