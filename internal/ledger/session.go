// Package ledger holds the in-memory customer ledger and its selection.
//
// A Session is a value. Methods that change it return a new Session and
// leave the receiver untouched, so a failed operation never exposes a
// half-applied change to the caller.
package ledger

import (
	"github.com/leapstack-labs/leapledger/pkg/core"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
)

// NoSelection is the selection value meaning "no customer selected".
const NoSelection = -1

// Session is the ordered customer set plus an optional selection.
// The zero value is an empty ledger with nothing selected.
type Session struct {
	customers []core.Customer
	// sel is the selected index plus one; 0 means none.
	sel int
}

// New creates a session over customers with nothing selected.
// The slice is copied.
func New(customers []core.Customer) Session {
	return Session{customers: clone(customers)}
}

// Empty returns a session with no customers.
func Empty() Session {
	return New(nil)
}

// Len returns the number of customers.
func (s Session) Len() int {
	return len(s.customers)
}

// Customers returns a copy of the customers in ledger order.
func (s Session) Customers() []core.Customer {
	return clone(s.customers)
}

// At returns the customer at index i.
func (s Session) At(i int) (core.Customer, error) {
	if err := s.checkIndex(i); err != nil {
		return core.Customer{}, err
	}
	return s.customers[i], nil
}

// Selected returns the selected index and whether there is one.
func (s Session) Selected() (int, bool) {
	if s.sel == 0 {
		return NoSelection, false
	}
	return s.sel - 1, true
}

// SelectedIndex returns the selected index or NoSelection.
func (s Session) SelectedIndex() int {
	i, _ := s.Selected()
	return i
}

// Select sets the selection to i. An out of range index leaves the
// selection unchanged and returns a state error.
func (s Session) Select(i int) (Session, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	s.sel = i + 1
	return s, nil
}

// ClearSelection returns the session with nothing selected.
func (s Session) ClearSelection() Session {
	s.sel = 0
	return s
}

// Append adds c at the end of the ledger and clears the selection.
func (s Session) Append(c core.Customer) Session {
	next := make([]core.Customer, len(s.customers), len(s.customers)+1)
	copy(next, s.customers)
	return Session{customers: append(next, c)}
}

// RemoveAt removes the customer at i, shifting later customers up by one,
// and clears the selection. The removed customer is returned.
func (s Session) RemoveAt(i int) (Session, core.Customer, error) {
	if err := s.checkIndex(i); err != nil {
		return s, core.Customer{}, err
	}
	removed := s.customers[i]
	next := make([]core.Customer, 0, len(s.customers)-1)
	next = append(next, s.customers[:i]...)
	next = append(next, s.customers[i+1:]...)
	return Session{customers: next}, removed, nil
}

// MutateAt applies fn to a copy of the customer at i. The selection is kept.
func (s Session) MutateAt(i int, fn func(c *core.Customer)) (Session, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	next := clone(s.customers)
	fn(&next[i])
	return Session{customers: next, sel: s.sel}, nil
}

func (s Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.customers) {
		return ierr.NewErrorf("index %d out of range [0,%d)", i, len(s.customers)).
			WithHint("Please select a customer.").
			WithReportableDetails(map[string]any{"index": i, "len": len(s.customers)}).
			Mark(ierr.ErrState)
	}
	return nil
}

func clone(in []core.Customer) []core.Customer {
	if len(in) == 0 {
		return nil
	}
	out := make([]core.Customer, len(in))
	copy(out, in)
	return out
}
