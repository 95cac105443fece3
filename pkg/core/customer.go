package core

// Column names of the persisted ledger schema, in file order.
const (
	ColumnName    = "Name"
	ColumnPhone   = "Phone"
	ColumnMonthly = "Monthly"
	ColumnPayment = "Payment"
	ColumnDue     = "Due"
)

// Columns is the header row of every backing file.
var Columns = []string{ColumnName, ColumnPhone, ColumnMonthly, ColumnPayment, ColumnDue}

// Customer is one row of the ledger.
//
// Due is not a field: it is always derived from Monthly and Payment, so a
// stale value can never be observed.
type Customer struct {
	Name    string  `json:"name" validate:"required"`
	Phone   string  `json:"phone" validate:"required"`
	Monthly float64 `json:"monthly" validate:"gte=0"`
	Payment float64 `json:"payment" validate:"gte=0"`
}

// Due returns the outstanding balance. Negative means the customer has credit.
func (c Customer) Due() float64 {
	return c.Monthly - c.Payment
}

// CustomerView is the serialized form of a Customer including the derived
// balance, used for JSON output.
type CustomerView struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Monthly  float64 `json:"monthly"`
	Payment  float64 `json:"payment"`
	Due      float64 `json:"due"`
	Selected bool    `json:"selected,omitempty"`
}

// View returns the serialized form of c at position index.
func (c Customer) View(index int) CustomerView {
	return CustomerView{
		Index:   index,
		Name:    c.Name,
		Phone:   c.Phone,
		Monthly: c.Monthly,
		Payment: c.Payment,
		Due:     c.Due(),
	}
}
