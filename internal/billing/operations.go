package billing

import (
	"context"
	"strings"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/internal/notify"
	"github.com/leapstack-labs/leapledger/internal/validator"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// PaymentReceipt is the outcome of a committed payment.
type PaymentReceipt struct {
	Index    int
	Customer core.Customer
	Amount   float64
	Message  string

	// Dispatch is set when the notification link was opened.
	Dispatch *notify.Dispatch
	// NotifyErr is the notification failure, if any. The payment stands
	// regardless.
	NotifyErr error
}

// AddCustomer validates the typed fields, appends the customer and saves.
func (s *Service) AddCustomer(ctx context.Context, sess ledger.Session, name, phone, monthlyText, paymentText string) (ledger.Session, *core.Customer, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" || strings.TrimSpace(monthlyText) == "" || strings.TrimSpace(paymentText) == "" {
		return sess, nil, ierr.NewError("missing customer field").
			WithHint("Please fill all fields.").
			Mark(ierr.ErrValidation)
	}

	const numbersHint = "Monthly and Payment must be numbers."
	monthly, err := parseNumber(monthlyText, numbersHint)
	if err != nil {
		return sess, nil, err
	}
	payment, err := parseNumber(paymentText, numbersHint)
	if err != nil {
		return sess, nil, err
	}

	c := core.Customer{
		Name:    name,
		Phone:   phone,
		Monthly: monthly,
		Payment: payment,
	}
	if c.Monthly < 0 || c.Payment < 0 {
		return sess, nil, ierr.NewError("negative amount").
			WithHint("Monthly and Payment cannot be negative.").
			Mark(ierr.ErrValidation)
	}
	if err := validator.ValidateStruct(c); err != nil {
		return sess, nil, err
	}

	next := sess.Append(c)
	if err := s.persist(next); err != nil {
		return next, &c, err
	}
	s.logger.Debug("customer added", "name", c.Name, "index", next.Len()-1)
	s.record(ctx, core.EventCustomerAdded, c, c.Payment)
	return next, &c, nil
}

// RecordPayment adds amountText to the selected customer's Payment, saves,
// and then sends the confirmation message. A notification failure is left on
// the receipt and does not fail the payment. When the save fails no
// notification is sent.
func (s *Service) RecordPayment(ctx context.Context, sess ledger.Session, index int, amountText string) (ledger.Session, *PaymentReceipt, error) {
	if err := requireSelected(sess, index, "Please select a customer."); err != nil {
		return sess, nil, err
	}
	amount, err := parsePositive(amountText, "Please enter payment amount.", "Payment must be positive.")
	if err != nil {
		return sess, nil, err
	}

	cur, err := sess.At(index)
	if err != nil {
		return sess, nil, err
	}
	total, err := addAmount(cur.Payment, amount, "Payment must be positive.")
	if err != nil {
		return sess, nil, err
	}

	next, err := sess.MutateAt(index, func(c *core.Customer) {
		c.Payment = total
	})
	if err != nil {
		return sess, nil, err
	}
	c, _ := next.At(index)
	receipt := &PaymentReceipt{
		Index:    index,
		Customer: c,
		Amount:   amount,
		Message:  notify.BuildMessage(amount, c.Due()),
	}

	if err := s.persist(next); err != nil {
		return next, receipt, err
	}
	s.logger.Debug("payment recorded", "name", c.Name, "amount", amount, "due", c.Due())
	s.record(ctx, core.EventPaymentRecorded, c, amount)

	if s.notifier != nil {
		receipt.Dispatch, receipt.NotifyErr = s.notifier.Dispatch(ctx, c.Phone, receipt.Message)
		if receipt.NotifyErr != nil {
			s.logger.Warn("payment notification failed", "name", c.Name, "error", receipt.NotifyErr)
		}
	}
	return next, receipt, nil
}

// IncreaseMonthly adds amountText to the selected customer's Monthly charge
// and saves. No notification is sent.
func (s *Service) IncreaseMonthly(ctx context.Context, sess ledger.Session, index int, amountText string) (ledger.Session, *core.Customer, error) {
	if err := requireSelected(sess, index, "Please select a customer."); err != nil {
		return sess, nil, err
	}
	amount, err := parsePositive(amountText, "Please enter monthly increment.", "Monthly increment must be positive.")
	if err != nil {
		return sess, nil, err
	}

	cur, err := sess.At(index)
	if err != nil {
		return sess, nil, err
	}
	total, err := addAmount(cur.Monthly, amount, "Monthly increment must be positive.")
	if err != nil {
		return sess, nil, err
	}

	next, err := sess.MutateAt(index, func(c *core.Customer) {
		c.Monthly = total
	})
	if err != nil {
		return sess, nil, err
	}
	c, _ := next.At(index)

	if err := s.persist(next); err != nil {
		return next, &c, err
	}
	s.logger.Debug("monthly increased", "name", c.Name, "amount", amount, "monthly", c.Monthly)
	s.record(ctx, core.EventMonthlyIncreased, c, amount)
	return next, &c, nil
}

// requireSelected checks that index is in range and is the session's
// selection.
func requireSelected(sess ledger.Session, index int, hint string) error {
	selected, ok := sess.Selected()
	if !ok || selected != index || index < 0 || index >= sess.Len() {
		return ierr.NewErrorf("customer %d is not selected", index).
			WithHint(hint).
			WithReportableDetails(map[string]any{"index": index, "selected": sess.SelectedIndex()}).
			Mark(ierr.ErrState)
	}
	return nil
}
