// Package tui is the interactive terminal front end. It renders the ledger,
// collects input for billing operations and acts as the confirmation
// dialog for removals.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/leapledger/internal/billing"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/internal/present"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modePay
	modeRaise
	modeConfirm
)

// Model is the bubbletea model of the ledger UI.
type Model struct {
	ctx  context.Context
	svc  *billing.Service
	sess ledger.Session

	cursor int
	mode   mode
	inputs []textinput.Model
	focus  int
	flow   billing.RemovalFlow

	status    string
	statusErr bool
	title     string
	showLinks bool

	keys   keyMap
	help   help.Model
	styles styles
}

// New creates the model over an already loaded session.
func New(ctx context.Context, svc *billing.Service, sess ledger.Session, title string) Model {
	return Model{
		ctx:    ctx,
		svc:    svc,
		sess:   sess,
		title:  title,
		keys:   defaultKeys(),
		help:   help.New(),
		styles: defaultStyles(),
	}
}

// WithStatus returns m showing msg on the status line.
func (m Model) WithStatus(msg string, isErr bool) Model {
	m.status = msg
	m.statusErr = isErr
	return m
}

// WithLinks returns m appending the opened link to the payment status.
// Used when links are printed rather than opened, since the screen owns
// the terminal.
func (m Model) WithLinks(show bool) Model {
	m.showLinks = show
	return m
}

// Session returns the current ledger state.
func (m Model) Session() ledger.Session {
	return m.sess
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateForm(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.sess.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		next, err := m.sess.Select(m.cursor)
		if err != nil {
			return m.fail(err), nil
		}
		m.sess = next
		m.status = ""
	case key.Matches(msg, m.keys.Clear):
		m.sess = m.sess.ClearSelection()
	case key.Matches(msg, m.keys.ShowHelp):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Add):
		return m.openForm(modeAdd, "Name", "Phone", "Monthly", "Payment")
	case key.Matches(msg, m.keys.Pay):
		if !m.requireSelection("Please select a customer.") {
			return m, nil
		}
		return m.openForm(modePay, "Payment")
	case key.Matches(msg, m.keys.Raise):
		if !m.requireSelection("Please select a customer.") {
			return m, nil
		}
		return m.openForm(modeRaise, "Increase")
	case key.Matches(msg, m.keys.Remove):
		if _, err := m.flow.Request(m.svc, m.sess, m.sess.SelectedIndex()); err != nil {
			return m.fail(err), nil
		}
		m.mode = modeConfirm
	}
	return m, nil
}

func (m *Model) requireSelection(hint string) bool {
	if _, ok := m.sess.Selected(); ok {
		return true
	}
	m.status = hint
	m.statusErr = true
	return false
}

func (m Model) openForm(md mode, labels ...string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.focus = 0
	m.inputs = make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = label
		ti.CharLimit = 64
		m.inputs[i] = ti
	}
	m.status = ""
	return m, m.inputs[0].Focus()
}

func (m Model) closeForm() Model {
	m.mode = modeList
	m.inputs = nil
	m.focus = 0
	return m
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		return m.closeForm(), nil
	case key.Matches(msg, m.keys.Submit) && m.focus == len(m.inputs)-1:
		return m.submit(), nil
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Submit):
		return m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m, m.inputs[m.focus].Focus()
}

func (m Model) submit() Model {
	values := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		values[i] = in.Value()
	}
	index := m.sess.SelectedIndex()

	switch m.mode {
	case modeAdd:
		next, c, err := m.svc.AddCustomer(m.ctx, m.sess, values[0], values[1], values[2], values[3])
		m.sess = next
		if err != nil {
			// invalid input keeps the form open for correction
			if ierr.IsValidation(err) {
				return m.fail(err)
			}
			return m.closeForm().fail(err)
		}
		m.cursor = m.sess.Len() - 1
		return m.closeForm().ok(fmt.Sprintf("Added %s.", c.Name))

	case modePay:
		next, receipt, err := m.svc.RecordPayment(m.ctx, m.sess, index, values[0])
		m.sess = next
		if err != nil {
			if ierr.IsValidation(err) {
				return m.fail(err)
			}
			return m.closeForm().fail(err)
		}
		m = m.closeForm()
		if receipt.NotifyErr != nil {
			return m.fail(receipt.NotifyErr)
		}
		msg := fmt.Sprintf("Recorded %s from %s. Due: %s",
			core.FormatAmount(receipt.Amount), receipt.Customer.Name, core.FormatAmount(receipt.Customer.Due()))
		if m.showLinks && receipt.Dispatch != nil {
			msg += " Open to send: " + receipt.Dispatch.URI
		}
		return m.ok(msg)

	case modeRaise:
		next, c, err := m.svc.IncreaseMonthly(m.ctx, m.sess, index, values[0])
		m.sess = next
		if err != nil {
			if ierr.IsValidation(err) {
				return m.fail(err)
			}
			return m.closeForm().fail(err)
		}
		return m.closeForm().ok(fmt.Sprintf("%s now pays %s monthly.", c.Name, core.FormatAmount(c.Monthly)))
	}
	return m.closeForm()
}

// decision maps a key in the removal dialog to a decision. ok is false for
// keys the dialog ignores.
func (m Model) decision(msg tea.KeyMsg) (d billing.Decision, ok bool) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return billing.Confirm, true
	case key.Matches(msg, m.keys.Decline):
		return billing.Cancel, true
	}
	return billing.Cancel, false
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.flow.Cancel()
		return m, tea.Quit
	}
	d, ok := m.decision(msg)
	if !ok {
		return m, nil
	}
	m.mode = modeList
	if d == billing.Cancel {
		m.flow.Cancel()
		m.status = "Removal cancelled."
		m.statusErr = false
		return m, nil
	}

	next, removed, err := m.flow.Confirm(m.ctx, m.svc, m.sess)
	m.sess = next
	if m.cursor >= m.sess.Len() && m.cursor > 0 {
		m.cursor = m.sess.Len() - 1
	}
	if err != nil {
		return m.fail(err), nil
	}
	return m.ok(fmt.Sprintf("Removed %s.", removed.Name)), nil
}

func (m Model) ok(msg string) Model {
	m.status = msg
	m.statusErr = false
	return m
}

func (m Model) fail(err error) Model {
	m.status = ierr.DisplayMessage(err)
	m.statusErr = true
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")

	lines := present.SessionLines(m.sess)
	if len(lines) == 0 {
		b.WriteString(m.styles.Muted.Render("  No customers yet. Press a to add one."))
		b.WriteString("\n")
	}
	selected := m.sess.SelectedIndex()
	for i, line := range lines {
		prefix := "  "
		if i == m.cursor && m.mode == modeList {
			prefix = m.styles.Cursor.Render("> ")
		}
		if i == selected {
			line = m.styles.Selected.Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd, modePay, modeRaise:
		b.WriteString(m.formView())
		b.WriteString("\n" + m.help.View(formHelp{m.keys}))
	case modeConfirm:
		b.WriteString(m.confirmView())
		b.WriteString("\n" + m.help.View(confirmHelp{m.keys}))
	default:
		b.WriteString(m.help.View(listHelp{m.keys}))
	}
	b.WriteString("\n")

	if m.status != "" {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) formView() string {
	var b strings.Builder
	for _, in := range m.inputs {
		b.WriteString(m.styles.Label.Render(in.Placeholder+":") + " " + in.View() + "\n")
	}
	return b.String()
}

func (m Model) confirmView() string {
	p, _ := m.flow.Pending()
	text := fmt.Sprintf("Are you sure you want to remove\nName: %s, Phone: %s?\n\n[y] Remove   [n] Cancel", p.Name, p.Phone)
	return m.styles.Dialog.Render(text) + "\n"
}
