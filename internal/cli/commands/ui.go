package commands

import (
	"io"

	"github.com/spf13/cobra"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/notify"
	"github.com/leapstack-labs/leapledger/internal/tui"
)

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive ledger screen",
		Long: `Open a full-screen view of the customer list.

Keys:
  up/down  move            enter  select
  a        add customer    p      record payment
  m        raise monthly   d      remove customer
  q        quit

If the ledger cannot be loaded the screen starts empty and shows the
reason on the status line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// the screen owns the terminal; printed links go to the status line
			cc, cleanup, err := newCommandContext(cmd, io.Discard)
			if err != nil {
				return err
			}
			defer cleanup()

			m := tui.New(commandContext(cmd), cc.Service, cc.Session, "LeapLedger · "+cc.Store.Path()).
				WithLinks(cc.Cfg.Notify.Opener == notify.OpenerPrint)
			if cc.LoadErr != nil {
				m = m.WithStatus(ierr.DisplayMessage(cc.LoadErr), true)
			}

			final, err := tui.Run(commandContext(cmd), m, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cc.Logger.Debug("ui closed", "customers", final.Session().Len())
			return nil
		},
	}
}
