// Package present renders ledger state for display.
package present

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// SelectedSuffix is appended to the display line of the selected customer.
const SelectedSuffix = "  [selected]"

// Line renders one customer.
func Line(c core.Customer) string {
	return fmt.Sprintf("Name: %s, Phone: %s, Monthly: %s, Payment: %s, Due: %s",
		c.Name, c.Phone,
		core.FormatAmount(c.Monthly),
		core.FormatAmount(c.Payment),
		core.FormatAmount(c.Due()),
	)
}

// Lines renders customers in ledger order. The row whose index equals
// selected gets SelectedSuffix; pass ledger.NoSelection for none.
func Lines(customers []core.Customer, selected int) []string {
	return lo.Map(customers, func(c core.Customer, i int) string {
		if i == selected {
			return Line(c) + SelectedSuffix
		}
		return Line(c)
	})
}

// SessionLines renders a session.
func SessionLines(sess ledger.Session) []string {
	return Lines(sess.Customers(), sess.SelectedIndex())
}

// Header is the table header, including the display index column.
var Header = append([]string{"#"}, core.Columns...)

// Rows returns one table row per customer. The first cell is the 1-based
// display index.
func Rows(customers []core.Customer) [][]string {
	return RowsWith(customers, core.FormatAmount)
}

// RowsWith is Rows with a custom amount format.
func RowsWith(customers []core.Customer, amount func(float64) string) [][]string {
	return lo.Map(customers, func(c core.Customer, i int) []string {
		return []string{
			strconv.Itoa(i + 1),
			c.Name,
			c.Phone,
			amount(c.Monthly),
			amount(c.Payment),
			amount(c.Due()),
		}
	})
}

// Views returns the serialized form of customers with the selection marked.
func Views(customers []core.Customer, selected int) []core.CustomerView {
	return lo.Map(customers, func(c core.Customer, i int) core.CustomerView {
		v := c.View(i)
		v.Selected = i == selected
		return v
	})
}

// Totals sums Monthly, Payment and Due across customers.
func Totals(customers []core.Customer) (monthly, payment, due float64) {
	monthly = lo.SumBy(customers, func(c core.Customer) float64 { return c.Monthly })
	payment = lo.SumBy(customers, func(c core.Customer) float64 { return c.Payment })
	return monthly, payment, monthly - payment
}
