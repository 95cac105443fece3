package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/ledger"
)

// watchDebounce coalesces the burst of events produced by a single save.
const watchDebounce = 150 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show the ledger and refresh it when the file changes",
		Long: `Print the customer list, then reprint it whenever the ledger file is
written by another program or another leapledger command.

Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cc)
		},
	}
}

func runWatch(ctx context.Context, cc *CommandContext) error {
	r := cc.Renderer
	if cc.LoadErr != nil {
		r.Warning(ierr.DisplayMessage(cc.LoadErr))
	} else if err := renderLedger(r, cc.Store.Path(), cc.Session); err != nil {
		return err
	}

	changes := make(chan struct{}, 1)
	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(changes)
		return cc.Store.Watch(egctx, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	})

	eg.Go(func() error {
		for range changes {
			select {
			case <-egctx.Done():
				return nil
			case <-time.After(watchDebounce):
			}
			// drop events from the same burst
			select {
			case <-changes:
			default:
			}

			customers, err := cc.Store.Load()
			if err != nil {
				cc.Logger.Warn("reload failed", "path", cc.Store.Path(), "error", err)
				r.Warning(ierr.DisplayMessage(err))
				continue
			}
			r.Println("")
			if err := renderLedger(r, cc.Store.Path(), ledger.New(customers)); err != nil {
				return err
			}
		}
		return nil
	})

	return eg.Wait()
}
