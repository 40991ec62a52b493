// Package settlement models one chat turn as a saga: a token debit, then the
// costly work, then either completion or a single compensating refund.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type State string

const (
	StateCreated      State = "created"
	StateDebiting     State = "debiting"
	StateUserMsgSaved State = "user_message_saved"
	StateStreaming    State = "streaming"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

var ErrInvalidTransition = errors.New("settlement: invalid state transition")

// Ledger is the slice of the token ledger a turn depends on.
type Ledger interface {
	ConsumeToken(ctx context.Context, userID, conversationID uuid.UUID) (int, error)
	RefundToken(ctx context.Context, userID, conversationID uuid.UUID) (int, error)
}

var allowed = map[State][]State{
	StateCreated:      {StateDebiting},
	StateDebiting:     {StateUserMsgSaved, StateFailed},
	StateUserMsgSaved: {StateStreaming, StateFailed},
	StateStreaming:    {StateCompleted, StateFailed},
}

// Saga tracks one turn. It is safe for use by the request goroutine and the
// stream writer goroutine.
type Saga struct {
	UserID         uuid.UUID
	ConversationID uuid.UUID

	ledger Ledger

	mu          sync.Mutex
	state       State
	history     []State
	debited     bool
	compensated bool
}

func New(ledger Ledger, userID, conversationID uuid.UUID) *Saga {
	return &Saga{
		UserID:         userID,
		ConversationID: conversationID,
		ledger:         ledger,
		state:          StateCreated,
		history:        []State{StateCreated},
	}
}

func (s *Saga) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History lists every state the saga has entered, in order.
func (s *Saga) History() []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]State, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Saga) transition(to State) error {
	for _, next := range allowed[s.state] {
		if next == to {
			s.state = to
			s.history = append(s.history, to)
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
}

// Debit consumes the turn's token. A ledger error ends the saga as failed
// with nothing to compensate.
func (s *Saga) Debit(ctx context.Context) (int, error) {
	s.mu.Lock()
	if err := s.transition(StateDebiting); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.mu.Unlock()

	balance, err := s.ledger.ConsumeToken(ctx, s.UserID, s.ConversationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		_ = s.transition(StateFailed)
		return 0, err
	}
	s.debited = true
	return balance, nil
}

func (s *Saga) UserMessageSaved() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(StateUserMsgSaved)
}

func (s *Saga) Streaming() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(StateStreaming)
}

func (s *Saga) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(StateCompleted)
}

// Fail ends the turn and runs the compensating refund at most once.
// refunded reports whether this call issued the refund. A refund error is
// returned but the saga is still failed.
func (s *Saga) Fail(ctx context.Context) (refunded bool, balance int, err error) {
	s.mu.Lock()
	if s.state != StateFailed {
		if terr := s.transition(StateFailed); terr != nil {
			s.mu.Unlock()
			return false, 0, terr
		}
	}
	if !s.debited || s.compensated {
		s.mu.Unlock()
		return false, 0, nil
	}
	s.compensated = true
	s.mu.Unlock()

	balance, err = s.ledger.RefundToken(ctx, s.UserID, s.ConversationID)
	if err != nil {
		return false, 0, err
	}
	return true, balance, nil
}
