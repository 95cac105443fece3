package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapledger/internal/cli/output"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/journal"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent billing operations from the journal",
		Long: `Show the most recent operations recorded in the journal, newest first.

The journal is a SQLite database written after every successful add,
payment, increase and removal. It is never read back into the ledger.`,
		Example: `  leapledger history
  leapledger history --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutLedger(cmd)
			if !cc.Cfg.JournalEnabled() {
				return ierr.NewError("journal disabled").
					WithHint("The journal is disabled. Set journal_path to enable it.").
					Mark(ierr.ErrState)
			}

			j, err := journal.Open(cc.Cfg.JournalPath)
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()
			if err := j.Migrate(); err != nil {
				return err
			}

			events, err := j.List(commandContext(cmd), limit)
			if err != nil {
				return err
			}
			return renderHistory(cc.Renderer, events)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events to show (-1 for all)")

	return cmd
}

var kindTitle = cases.Title(language.English)

// kindLabel turns "payment_recorded" into "Payment Recorded".
func kindLabel(k core.EventKind) string {
	return kindTitle.String(strings.ReplaceAll(string(k), "_", " "))
}

func renderHistory(r *output.Renderer, events []*core.Event) error {
	if r.EffectiveMode() == output.ModeJSON {
		if events == nil {
			events = []*core.Event{}
		}
		return r.JSON(events)
	}

	if len(events) == 0 {
		r.Muted("No operations recorded yet.")
		return nil
	}

	header := []string{"When", "Operation", "Customer", "Amount", "Due"}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			ev.CreatedAt.Local().Format("2006-01-02 15:04"),
			kindLabel(ev.Kind),
			ev.Customer,
			r.Amount(ev.Amount),
			r.Amount(ev.Due),
		})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(2, "History"))
		r.MarkdownTable(header, rows)
		return nil
	}
	r.Table(header, rows, nil)
	return nil
}
