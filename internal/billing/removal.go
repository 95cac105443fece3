package billing

import (
	"context"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// RemovalPrompt is what the confirmation collaborator shows the user.
type RemovalPrompt struct {
	Index int
	Name  string
	Phone string
}

// Decision is the confirmation collaborator's answer.
type Decision int

const (
	Cancel Decision = iota
	Confirm
)

func (d Decision) String() string {
	if d == Confirm {
		return "confirm"
	}
	return "cancel"
}

// Confirmer asks the user whether a customer should be removed.
type Confirmer interface {
	Confirm(ctx context.Context, prompt RemovalPrompt) (Decision, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, prompt RemovalPrompt) (Decision, error)

// Confirm calls f.
func (f ConfirmerFunc) Confirm(ctx context.Context, prompt RemovalPrompt) (Decision, error) {
	return f(ctx, prompt)
}

// RequestRemoval builds the confirmation prompt for the selected customer.
// Nothing changes.
func (s *Service) RequestRemoval(sess ledger.Session, index int) (RemovalPrompt, error) {
	if err := requireSelected(sess, index, "Please select a customer to remove."); err != nil {
		return RemovalPrompt{}, err
	}
	c, err := sess.At(index)
	if err != nil {
		return RemovalPrompt{}, err
	}
	return RemovalPrompt{Index: index, Name: c.Name, Phone: c.Phone}, nil
}

// ConfirmRemoval removes the customer at index and saves. The index is
// checked again since the ledger may have changed after the request.
func (s *Service) ConfirmRemoval(ctx context.Context, sess ledger.Session, index int) (ledger.Session, core.Customer, error) {
	next, removed, err := sess.RemoveAt(index)
	if err != nil {
		return sess, core.Customer{}, err
	}
	if err := s.persist(next); err != nil {
		return next, removed, err
	}
	s.logger.Debug("customer removed", "name", removed.Name, "index", index)
	s.record(ctx, core.EventCustomerRemoved, removed, 0)
	return next, removed, nil
}

// RemoveCustomer runs the whole removal flow, asking c for confirmation.
// The returned bool reports whether the customer was removed.
func (s *Service) RemoveCustomer(ctx context.Context, sess ledger.Session, index int, c Confirmer) (ledger.Session, bool, error) {
	var flow RemovalFlow
	prompt, err := flow.Request(s, sess, index)
	if err != nil {
		return sess, false, err
	}

	decision, err := c.Confirm(ctx, prompt)
	if err != nil {
		flow.Cancel()
		return sess, false, err
	}
	if decision != Confirm {
		flow.Cancel()
		s.logger.Debug("removal cancelled", "name", prompt.Name)
		return sess, false, nil
	}

	next, _, err := flow.Confirm(ctx, s, sess)
	if err != nil {
		return next, false, err
	}
	return next, true, nil
}

// RemovalState is a state of the removal flow.
type RemovalState int

const (
	Idle RemovalState = iota
	AwaitingConfirmation
)

func (st RemovalState) String() string {
	if st == AwaitingConfirmation {
		return "awaiting_confirmation"
	}
	return "idle"
}

// RemovalFlow tracks a pending removal between request and confirmation.
// The zero value is Idle.
type RemovalFlow struct {
	state  RemovalState
	prompt RemovalPrompt
}

// State returns the current state.
func (f *RemovalFlow) State() RemovalState {
	return f.state
}

// Pending returns the prompt awaiting confirmation.
func (f *RemovalFlow) Pending() (RemovalPrompt, bool) {
	return f.prompt, f.state == AwaitingConfirmation
}

// Request moves Idle to AwaitingConfirmation.
func (f *RemovalFlow) Request(s *Service, sess ledger.Session, index int) (RemovalPrompt, error) {
	if f.state != Idle {
		return RemovalPrompt{}, transitionError(f.state, "request")
	}
	prompt, err := s.RequestRemoval(sess, index)
	if err != nil {
		return RemovalPrompt{}, err
	}
	f.state = AwaitingConfirmation
	f.prompt = prompt
	return prompt, nil
}

// Cancel returns to Idle without side effects. Cancelling while Idle is a
// no-op.
func (f *RemovalFlow) Cancel() {
	f.state = Idle
	f.prompt = RemovalPrompt{}
}

// Confirm removes the pending customer and returns to Idle. The customer at
// the pending index must still be the one the prompt named.
func (f *RemovalFlow) Confirm(ctx context.Context, s *Service, sess ledger.Session) (ledger.Session, core.Customer, error) {
	if f.state != AwaitingConfirmation {
		return sess, core.Customer{}, transitionError(f.state, "confirm")
	}
	prompt := f.prompt
	f.Cancel()
	c, err := sess.At(prompt.Index)
	if err != nil {
		return sess, core.Customer{}, err
	}
	if c.Name != prompt.Name || c.Phone != prompt.Phone {
		return sess, core.Customer{}, ierr.NewErrorf("customer %d is no longer %s", prompt.Index, prompt.Name).
			WithHint("The customer list changed. Please select the customer to remove again.").
			WithReportableDetails(map[string]any{"index": prompt.Index, "expected": prompt.Name, "found": c.Name}).
			Mark(ierr.ErrState)
	}
	return s.ConfirmRemoval(ctx, sess, prompt.Index)
}

func transitionError(from RemovalState, action string) error {
	return ierr.NewErrorf("cannot %s removal while %s", action, from).
		WithHint("Please select a customer to remove.").
		Mark(ierr.ErrState)
}
