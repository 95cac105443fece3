package core

import (
	"context"
	"time"
)

// EventKind identifies a committed billing operation.
type EventKind string

// Event kinds recorded in the journal.
const (
	EventCustomerAdded    EventKind = "customer_added"
	EventPaymentRecorded  EventKind = "payment_recorded"
	EventMonthlyIncreased EventKind = "monthly_increased"
	EventCustomerRemoved  EventKind = "customer_removed"
)

// Event is a journal entry describing one committed billing operation and the
// customer's balances right after it.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Customer  string    `json:"customer"`
	Phone     string    `json:"phone"`
	Amount    float64   `json:"amount"`
	Monthly   float64   `json:"monthly"`
	Payment   float64   `json:"payment"`
	Due       float64   `json:"due"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent builds an event of the given kind from a customer snapshot.
func NewEvent(kind EventKind, c Customer, amount float64) Event {
	return Event{
		Kind:     kind,
		Customer: c.Name,
		Phone:    c.Phone,
		Amount:   amount,
		Monthly:  c.Monthly,
		Payment:  c.Payment,
		Due:      c.Due(),
	}
}

// Journal records committed billing events.
type Journal interface {
	Record(ctx context.Context, ev Event) (*Event, error)
	List(ctx context.Context, limit int) ([]*Event, error)
	Close() error
}
