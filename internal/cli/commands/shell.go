package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapledger/internal/billing"
	"github.com/leapstack-labs/leapledger/internal/cli/output"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/ledger"
)

const shellPrompt = "ledger> "

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Work with the ledger in an interactive prompt",
		Long: `Start a line-oriented prompt over the loaded ledger.

Select a customer first, then record a payment, raise the monthly charge or
remove it. Every change is saved immediately. Type 'help' for commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return runShell(commandContext(cmd), cmd, cc)
		},
	}
}

func runShell(ctx context.Context, cmd *cobra.Command, cc *CommandContext) error {
	historyFile := ""
	if cc.Cfg.JournalEnabled() && cc.Cfg.JournalPath != ":memory:" {
		historyFile = filepath.Join(filepath.Dir(cc.Cfg.JournalPath), "shell_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newShellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	confirm := billing.ConfirmerFunc(func(_ context.Context, p billing.RemovalPrompt) (billing.Decision, error) {
		rl.SetPrompt(fmt.Sprintf("Are you sure you want to remove\nName: %s, Phone: %s? [y/N] ", p.Name, p.Phone))
		defer rl.SetPrompt(shellPrompt)
		answer, err := rl.Readline()
		if err != nil {
			return billing.Cancel, nil
		}
		return parseDecision(answer), nil
	})

	s := newShellSession(cc.Service, cc.Session, cc.Renderer, confirm)
	if cc.LoadErr != nil {
		cc.Renderer.Warning(ierr.DisplayMessage(cc.LoadErr))
	}
	cc.Renderer.Printf("LeapLedger shell (%s, %d customers)\n", cc.Store.Path(), s.sess.Len())
	cc.Renderer.Println("Type help for commands, quit to exit")
	cc.Renderer.Println("")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		if s.exec(ctx, line) {
			break
		}
	}
	return nil
}

func newShellCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("select"),
		readline.PcItem("clear"),
		readline.PcItem("add"),
		readline.PcItem("pay"),
		readline.PcItem("raise"),
		readline.PcItem("remove"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// shellSession holds the state of one interactive shell.
type shellSession struct {
	svc     *billing.Service
	sess    ledger.Session
	r       *output.Renderer
	confirm billing.Confirmer
}

func newShellSession(svc *billing.Service, sess ledger.Session, r *output.Renderer, confirm billing.Confirmer) *shellSession {
	return &shellSession{svc: svc, sess: sess, r: r, confirm: confirm}
}

// exec runs one input line and reports whether the shell should exit.
func (s *shellSession) exec(ctx context.Context, line string) bool {
	args, err := splitArgs(line)
	if err != nil {
		s.r.Error(ierr.DisplayMessage(err))
		return false
	}
	if len(args) == 0 {
		return false
	}

	name, args := strings.ToLower(args[0]), args[1:]
	switch name {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		printShellHelp(s.r)
	case "list", "ls":
		s.report(renderLedger(s.r, "", s.sess))
	case "select", "sel":
		s.selectCustomer(args)
	case "clear":
		s.sess = s.sess.ClearSelection()
	case "add":
		s.add(ctx, args)
	case "pay":
		s.pay(ctx, args)
	case "raise":
		s.raise(ctx, args)
	case "remove", "rm":
		s.remove(ctx, args)
	default:
		s.r.Error(fmt.Sprintf("Unknown command %q. Type help for commands.", name))
	}
	return false
}

func (s *shellSession) report(err error) {
	if err != nil {
		s.r.Error(ierr.DisplayMessage(err))
	}
}

func (s *shellSession) usage(text string) {
	s.r.Error("Usage: " + text)
}

// selected returns the current selection or reports hint.
func (s *shellSession) selected(hint string) (int, bool) {
	i, ok := s.sess.Selected()
	if !ok {
		s.r.Error(hint)
	}
	return i, ok
}

func (s *shellSession) selectCustomer(args []string) {
	if len(args) != 1 {
		s.usage("select <number>")
		return
	}
	next, i, err := selectArg(s.sess, args[0])
	if err != nil {
		s.report(err)
		return
	}
	s.sess = next
	c, _ := s.sess.At(i)
	s.r.Println(fmt.Sprintf("Selected %d: %s (due %s)", i+1, c.Name, s.r.Amount(c.Due())))
}

func (s *shellSession) add(ctx context.Context, args []string) {
	if len(args) != 4 {
		s.usage(`add "<name>" <phone> <monthly> <payment>`)
		return
	}
	next, c, err := s.svc.AddCustomer(ctx, s.sess, args[0], args[1], args[2], args[3])
	s.sess = next
	if err != nil {
		s.report(err)
		return
	}
	s.r.Success(fmt.Sprintf("Added %s as customer %d", c.Name, s.sess.Len()))
}

func (s *shellSession) pay(ctx context.Context, args []string) {
	i, ok := s.selected("Please select a customer.")
	if !ok {
		return
	}
	amount := ""
	if len(args) > 0 {
		amount = args[0]
	}
	next, receipt, err := s.svc.RecordPayment(ctx, s.sess, i, amount)
	s.sess = next
	if err != nil {
		s.report(err)
		return
	}
	s.report(reportPayment(s.r, receipt))
}

func (s *shellSession) raise(ctx context.Context, args []string) {
	i, ok := s.selected("Please select a customer.")
	if !ok {
		return
	}
	amount := ""
	if len(args) > 0 {
		amount = args[0]
	}
	next, c, err := s.svc.IncreaseMonthly(ctx, s.sess, i, amount)
	s.sess = next
	if err != nil {
		s.report(err)
		return
	}
	s.r.Success(fmt.Sprintf("Raised monthly charge for %s to %s", c.Name, s.r.Amount(c.Monthly)))
}

func (s *shellSession) remove(ctx context.Context, args []string) {
	if len(args) == 1 {
		next, _, err := selectArg(s.sess, args[0])
		if err != nil {
			s.report(err)
			return
		}
		s.sess = next
	}
	i, ok := s.selected("Please select a customer to remove.")
	if !ok {
		return
	}
	c, _ := s.sess.At(i)
	next, removed, err := s.svc.RemoveCustomer(ctx, s.sess, i, s.confirm)
	s.sess = next
	if err != nil {
		s.report(err)
		return
	}
	s.report(reportRemoval(s.r, c.Name, removed, s.sess))
}

func printShellHelp(r *output.Renderer) {
	r.Println("Commands:")
	r.Println("  list                                   Show all customers")
	r.Println("  select <number>                        Select a customer")
	r.Println("  clear                                  Clear the selection")
	r.Println(`  add "<name>" <phone> <monthly> <paid>  Add a customer`)
	r.Println("  pay <amount>                           Record a payment for the selected customer")
	r.Println("  raise <amount>                         Increase the selected customer's monthly charge")
	r.Println("  remove [number]                        Remove the selected customer")
	r.Println("  quit                                   Exit the shell")
}

// splitArgs splits a line the way a POSIX shell would, so names with spaces
// can be quoted and quotes escaped.
func splitArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Close the quote before pressing enter.").
			WithReportableDetails(map[string]any{"line": line}).
			Mark(ierr.ErrValidation)
	}
	if len(args) == 0 {
		return nil, nil
	}
	return args, nil
}
