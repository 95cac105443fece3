package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapledger/internal/billing"
	"github.com/leapstack-labs/leapledger/internal/cli/output"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// NewAddCommand creates the add command.
func NewAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <phone> <monthly> <payment>",
		Short: "Add a customer",
		Long: `Add a customer at the end of the ledger and save the file.

The phone number is stored as given. A leading 0 is replaced by the
configured country code only when a payment message is sent.`,
		Example: `  leapledger add "Asha Rai" 0981234567 1500 500`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := cc.RequireLoaded(); err != nil {
				return err
			}

			sess, c, err := cc.Service.AddCustomer(commandContext(cmd), cc.Session, args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}
			return reportCustomer(cc.Renderer, fmt.Sprintf("Added %s as customer %d", c.Name, sess.Len()), sess.Len()-1, *c)
		},
	}
}

// NewPayCommand creates the pay command.
func NewPayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <index> <amount>",
		Short: "Record a payment and send the confirmation message",
		Long: `Add a payment to a customer's total, save the ledger and open a WhatsApp
link with the confirmation message.

The index is the customer number shown by 'leapledger list'. The amount must
be greater than zero. A notification failure is reported but the payment is
kept.`,
		Example: `  leapledger pay 2 500

  # Print the WhatsApp link instead of opening it
  leapledger pay 2 500 --no-open`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := cc.RequireLoaded(); err != nil {
				return err
			}

			sess, index, err := selectArg(cc.Session, args[0])
			if err != nil {
				return err
			}
			_, receipt, err := cc.Service.RecordPayment(commandContext(cmd), sess, index, args[1])
			if err != nil {
				return err
			}
			return reportPayment(cc.Renderer, receipt)
		},
	}
}

// NewRaiseCommand creates the raise command.
func NewRaiseCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "raise <index> <amount>",
		Aliases: []string{"increase"},
		Short:   "Increase a customer's monthly charge",
		Example: `  leapledger raise 1 250`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := cc.RequireLoaded(); err != nil {
				return err
			}

			sess, index, err := selectArg(cc.Session, args[0])
			if err != nil {
				return err
			}
			_, c, err := cc.Service.IncreaseMonthly(commandContext(cmd), sess, index, args[1])
			if err != nil {
				return err
			}
			return reportCustomer(cc.Renderer, fmt.Sprintf("Raised monthly charge for %s", c.Name), index, *c)
		},
	}
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <index>",
		Aliases: []string{"rm"},
		Short:   "Remove a customer after confirmation",
		Long: `Remove a customer from the ledger. Customers after it move up by one.

You are asked to confirm unless --yes is given.`,
		Example: `  leapledger remove 3
  leapledger remove 3 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := cc.RequireLoaded(); err != nil {
				return err
			}

			sess, index, err := selectArg(cc.Session, args[0])
			if err != nil {
				return err
			}

			var confirmer billing.Confirmer = billing.ConfirmerFunc(func(context.Context, billing.RemovalPrompt) (billing.Decision, error) {
				return billing.Confirm, nil
			})
			if !yes {
				confirmer = NewPromptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
			}

			removedName := ""
			if c, err := sess.At(index); err == nil {
				removedName = c.Name
			}
			next, removed, err := cc.Service.RemoveCustomer(commandContext(cmd), sess, index, confirmer)
			if err != nil {
				return err
			}
			return reportRemoval(cc.Renderer, removedName, removed, next)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Remove without asking for confirmation")

	return cmd
}

// PromptConfirmer asks for confirmation on a line-oriented reader.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptConfirmer returns a confirmer reading answers from in and writing
// prompts to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm implements billing.Confirmer. Only "y" or "yes" confirms.
func (p *PromptConfirmer) Confirm(_ context.Context, prompt billing.RemovalPrompt) (billing.Decision, error) {
	_, _ = fmt.Fprintf(p.out, "Are you sure you want to remove\nName: %s, Phone: %s? [y/N] ", prompt.Name, prompt.Phone)
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return billing.Cancel, ierr.WithError(err).WithHint("Could not read the answer.").Mark(ierr.ErrSystem)
	}
	return parseDecision(line), nil
}

func parseDecision(answer string) billing.Decision {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return billing.Confirm
	}
	return billing.Cancel
}

type customerJSON struct {
	Message  string            `json:"message"`
	Customer core.CustomerView `json:"customer"`
}

func reportCustomer(r *output.Renderer, msg string, index int, c core.Customer) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(customerJSON{Message: msg, Customer: c.View(index)})
	case output.ModeMarkdown:
		r.Println(msg)
		r.Println("")
		r.Println(output.FormatKeyValue("Monthly", core.FormatAmount(c.Monthly)))
		r.Println(output.FormatKeyValue("Payment", core.FormatAmount(c.Payment)))
		r.Println(output.FormatKeyValue("Due", core.FormatAmount(c.Due())))
	default:
		r.Success(msg)
		r.Printf("  %s %s  %s %s  %s %s\n",
			r.Styles().Muted.Render("monthly"), r.Amount(c.Monthly),
			r.Styles().Muted.Render("paid"), r.Amount(c.Payment),
			r.Styles().Muted.Render("due"), r.Amount(c.Due()))
	}
	return nil
}

type paymentJSON struct {
	Customer    core.CustomerView `json:"customer"`
	Amount      float64           `json:"amount"`
	Message     string            `json:"message"`
	Link        string            `json:"link,omitempty"`
	Fallback    bool              `json:"fallback,omitempty"`
	NotifyError string            `json:"notify_error,omitempty"`
}

func reportPayment(r *output.Renderer, receipt *billing.PaymentReceipt) error {
	var notifyMsg string
	if receipt.NotifyErr != nil {
		notifyMsg = ierr.DisplayMessage(receipt.NotifyErr)
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := paymentJSON{
			Customer:    receipt.Customer.View(receipt.Index),
			Amount:      receipt.Amount,
			Message:     receipt.Message,
			NotifyError: notifyMsg,
		}
		if receipt.Dispatch != nil {
			out.Link = receipt.Dispatch.URI
			out.Fallback = receipt.Dispatch.Fallback
		}
		return r.JSON(out)
	}

	if err := reportCustomer(r, fmt.Sprintf("Recorded %s from %s",
		core.FormatAmount(receipt.Amount), receipt.Customer.Name), receipt.Index, receipt.Customer); err != nil {
		return err
	}
	switch {
	case receipt.NotifyErr != nil:
		r.Warning("Payment saved, but the message was not sent: " + notifyMsg)
	case receipt.Dispatch != nil:
		r.Muted("Message: " + receipt.Message)
	}
	return nil
}

func reportRemoval(r *output.Renderer, name string, removed bool, next ledger.Session) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"removed": removed, "name": name, "count": next.Len()})
	}
	if !removed {
		r.Muted("Removal cancelled.")
		return nil
	}
	r.Success(fmt.Sprintf("Removed %s (%d customers left)", name, next.Len()))
	return nil
}
