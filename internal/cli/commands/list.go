package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapledger/internal/cli/output"
	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/internal/present"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List customers and their balances",
		Long: `List every customer in the ledger with the monthly charge, the total paid
and the remaining due.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown display lines (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List customers (auto-detect output format)
  leapledger list

  # List customers as JSON
  leapledger list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if cc.LoadErr != nil {
				return cc.LoadErr
			}
			return renderLedger(cc.Renderer, cc.Store.Path(), cc.Session)
		},
	}

	return cmd
}

// ledgerJSON is the JSON shape of the list command.
type ledgerJSON struct {
	Path      string              `json:"path"`
	Count     int                 `json:"count"`
	Customers []core.CustomerView `json:"customers"`
	Totals    totalsJSON          `json:"totals"`
}

type totalsJSON struct {
	Monthly float64 `json:"monthly"`
	Payment float64 `json:"payment"`
	Due     float64 `json:"due"`
}

// renderLedger writes the session in the renderer's effective mode.
func renderLedger(r *output.Renderer, path string, sess ledger.Session) error {
	customers := sess.Customers()
	monthly, payment, due := present.Totals(customers)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(ledgerJSON{
			Path:      path,
			Count:     len(customers),
			Customers: present.Views(customers, sess.SelectedIndex()),
			Totals:    totalsJSON{Monthly: monthly, Payment: payment, Due: due},
		})

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Customers (%d total)", len(customers))))
		r.Println("")
		if len(customers) == 0 {
			r.Println("_No customers._")
			return nil
		}
		r.Printf("%s", output.FormatList(present.SessionLines(sess)))
		r.Println("")
		r.Println(output.FormatKeyValue("Total due", core.FormatAmount(due)))
		return nil

	default:
		r.Header(1, fmt.Sprintf("Customers (%d total)", len(customers)))
		if len(customers) == 0 {
			r.Muted("No customers yet. Add one with: leapledger add <name> <phone> <monthly> <payment>")
			return nil
		}
		rows := present.RowsWith(customers, r.Amount)
		if i, ok := sess.Selected(); ok {
			rows[i][0] = r.Styles().Selected.Render("▶ " + rows[i][0])
		}
		r.Table(present.Header, rows, []string{"", "Total", "", r.Amount(monthly), r.Amount(payment), r.Amount(due)})
		if path != "" {
			r.Muted(path)
		}
		return nil
	}
}
