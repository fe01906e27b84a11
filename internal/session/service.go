package session

import (
	"context"
	"log"
	"time"

	"ticketqr/internal/models"
	"ticketqr/internal/ticket"
)

// MsgEncodeFailed is what a visitor sees when the QR image could not be produced.
const MsgEncodeFailed = "We could not generate your QR code. Please try again."

// Service drives the form: field edits, submit, and export.
type Service struct {
	store   Store
	enc     ticket.Encoder
	baseURL string
	now     func() time.Time
}

func NewService(store Store, enc ticket.Encoder, baseURL string) *Service {
	return &Service{store: store, enc: enc, baseURL: baseURL, now: time.Now}
}

// Outcome describes one Submit call.
//
// Valid is false when the draft failed validation; State.Errors then holds the
// messages and Hint may carry an email suggestion. Stale is true when a later
// submission started before this one finished, in which case its image was
// dropped. Err is the encoder failure, if any.
type Outcome struct {
	State State
	Valid bool
	Stale bool
	Hint  string
	Err   error
}

func (s *Service) State(ctx context.Context, id string) (State, error) {
	return s.store.Get(ctx, id)
}

// SetField replaces a single text field. It never validates.
func (s *Service) SetField(ctx context.Context, id string, field models.Field, value string) (State, error) {
	return s.store.Update(ctx, id, func(st *State) error {
		st.Draft = st.Draft.With(field, value)
		return nil
	})
}

// SetImage attaches or clears the optional photo.
func (s *Service) SetImage(ctx context.Context, id string, img *models.Image) (State, error) {
	return s.store.Update(ctx, id, func(st *State) error {
		st.Draft = st.Draft.WithImage(img)
		return nil
	})
}

// Apply sets several fields in one write, as a posted form does. A nil img
// keeps the current photo.
func (s *Service) Apply(ctx context.Context, id string, values map[models.Field]string, img *models.Image) (State, error) {
	return s.store.Update(ctx, id, func(st *State) error {
		for _, f := range models.TextFields {
			if v, ok := values[f]; ok {
				st.Draft = st.Draft.With(f, v)
			}
		}
		if img != nil {
			st.Draft = st.Draft.WithImage(img)
		}
		return nil
	})
}

// Submit validates the current draft and, when it passes, encodes its ticket
// URL. Of overlapping submissions the one submitted last wins: each gets a
// sequence number and results for older numbers are discarded.
// The returned error is reserved for store failures.
func (s *Service) Submit(ctx context.Context, id string) (Outcome, error) {
	var (
		valid  bool
		seq    uint64
		target string
	)
	st, err := s.store.Update(ctx, id, func(st *State) error {
		errs, ok := ticket.Validate(st.Draft)
		st.Errors = errs
		valid = ok
		if !ok {
			return nil
		}
		st.Seq++
		seq = st.Seq
		target = ticket.BuildURL(s.baseURL, st.Draft.FirstName, st.Draft.Email, st.Draft.RollNumber)
		st.EncodeError = ""
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	if !valid {
		return Outcome{State: st, Hint: ticket.SuffixHint(st.Draft.Email)}, nil
	}

	png, encErr := s.enc.Encode(ctx, target)
	if encErr != nil {
		log.Printf("session %s: encode seq %d failed: %v", id, seq, encErr)
	}

	// The visitor may have gone away; the result is still recorded.
	var stale bool
	st, err = s.store.Update(context.WithoutCancel(ctx), id, func(st *State) error {
		stale = st.Seq != seq
		if stale {
			return nil
		}
		if encErr != nil {
			st.EncodeError = MsgEncodeFailed
			return nil
		}
		st.Ticket = &models.Ticket{URL: target, PNG: png, Seq: seq, CreatedAt: s.now()}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	if stale {
		log.Printf("session %s: dropping seq %d, superseded by %d", id, seq, st.Seq)
	}
	return Outcome{State: st, Valid: true, Stale: stale, Err: encErr}, nil
}

// Export returns the ticket to download, or ErrNoTicket before the first success.
func (s *Service) Export(ctx context.Context, id string) (models.Ticket, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Ticket{}, err
	}
	if st.Ticket == nil {
		return models.Ticket{}, ErrNoTicket
	}
	return *st.Ticket, nil
}
