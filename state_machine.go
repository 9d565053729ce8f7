package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

const (
	textCodeInvalidTransition = "INVALID_VERIFICATION_TRANSITION"
	textCodeTerminalState     = "TERMINAL_VERIFICATION_STATE"
)

// ErrInvalidTransition is returned when a requested verification change
// is not allowed.
var ErrInvalidTransition = errors.New("invalid verification state transition", errors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(errors.CodeBadRequest)

// ErrTerminalState is returned when attempting to move away from the
// verified state. Verification never reverses.
var ErrTerminalState = errors.New("verification state is terminal", errors.CategoryConflict).
	WithTextCode(textCodeTerminalState).
	WithCode(errors.CodeConflict)

// VerificationState is the account verification state
type VerificationState string

const (
	// VerificationUnverified is the initial state for non privileged roles
	VerificationUnverified VerificationState = "unverified"
	// VerificationVerified is terminal; there is no path back
	VerificationVerified VerificationState = "verified"
)

// ActorRef identifies who/what triggered a transition
type ActorRef struct {
	ID   string
	Type string
}

// VerificationStateMachine drives the only persistent state machine in
// the engine. Initial state is role dependent: privileged roles are
// granted verified at creation, everyone else starts unverified.
type VerificationStateMachine interface {
	Verify(ctx context.Context, actor ActorRef, user *User) (*User, error)
	CurrentState(user *User) VerificationState
}

// StateMachineOption customizes state machine construction
type StateMachineOption func(*verificationStateMachine)

// WithStateMachineClock injects a custom clock (useful for tests)
func WithStateMachineClock(clock func() time.Time) StateMachineOption {
	return func(sm *verificationStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// WithStateMachineLogger overrides the logger
func WithStateMachineLogger(logger Logger) StateMachineOption {
	return func(sm *verificationStateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// NewVerificationStateMachine returns the default implementation backed
// by the provided repository.
func NewVerificationStateMachine(users Users, opts ...StateMachineOption) VerificationStateMachine {
	sm := &verificationStateMachine{
		users: users,
		transitions: map[VerificationState]map[VerificationState]struct{}{
			VerificationUnverified: {
				VerificationVerified: {},
			},
		},
		now:    time.Now,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

type verificationStateMachine struct {
	users       Users
	transitions map[VerificationState]map[VerificationState]struct{}
	now         func() time.Time
	logger      Logger
}

// Verify transitions the user to the verified state. Repeat calls are
// idempotent: the flag stays set and only updatedAt moves.
func (sm *verificationStateMachine) Verify(ctx context.Context, actor ActorRef, user *User) (*User, error) {
	if user == nil {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "user is nil",
		})
	}

	from := sm.CurrentState(user)

	if from != VerificationVerified && !sm.canTransition(from, VerificationVerified) {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   VerificationVerified,
		})
	}

	updated, err := sm.users.SetVerified(ctx, user.ID, sm.now())
	if err != nil {
		return nil, err
	}

	sm.logger.Info("user verification transition user=%d actor=%s from=%s", user.ID, actor.ID, from)

	user.IsVerified = true
	user.UpdatedAt = updated.UpdatedAt
	return user, nil
}

// CurrentState derives the verification state from the record
func (sm *verificationStateMachine) CurrentState(user *User) VerificationState {
	if user == nil {
		return ""
	}
	if user.IsVerified {
		return VerificationVerified
	}
	return VerificationUnverified
}

func (sm *verificationStateMachine) canTransition(from, to VerificationState) bool {
	if allowed, ok := sm.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}
