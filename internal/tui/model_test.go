package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapledger/internal/billing"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/internal/notify"
	"github.com/leapstack-labs/leapledger/internal/testutil"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

type memStore struct {
	saves int
	err   error
}

func (m *memStore) Save([]core.Customer) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	return nil
}

type opened struct{ uris []string }

func (o *opened) Open(_ context.Context, uri string) error {
	o.uris = append(o.uris, uri)
	return nil
}

func newModel(t *testing.T, customers ...core.Customer) (Model, *memStore, *opened) {
	t.Helper()
	st := &memStore{}
	op := &opened{}
	d := notify.NewDispatcher(notify.WithOpeners(nil, op))
	svc := billing.NewService(st, billing.WithNotifier(d), billing.WithLogger(testutil.NewTestLogger(t)))
	return New(context.Background(), svc, ledger.New(customers), "Customers"), st, op
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, keyRunes(string(r)))
	}
	return msgs
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func sample() []core.Customer {
	return []core.Customer{
		{Name: "A", Phone: "0981234567", Monthly: 10, Payment: 3},
		{Name: "B", Phone: "+44123", Monthly: 20},
	}
}

func TestSelectWithCursor(t *testing.T) {
	m, _, _ := newModel(t, sample()...)

	m = press(t, m, down, enter)
	idx, ok := m.Session().Selected()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Contains(t, m.View(), "Name: B, Phone: +44123, Monthly: 20.0, Payment: 0.0, Due: 20.0  [selected]")

	m = press(t, m, esc)
	_, ok = m.Session().Selected()
	assert.False(t, ok)
}

func TestAddCustomerForm(t *testing.T) {
	m, st, _ := newModel(t, sample()...)
	m = press(t, m, down, enter)

	msgs := []tea.Msg{keyRunes("a")}
	msgs = append(msgs, typeText("Chandra")...)
	msgs = append(msgs, tab)
	msgs = append(msgs, typeText("+977111")...)
	msgs = append(msgs, tab)
	msgs = append(msgs, typeText("15")...)
	msgs = append(msgs, tab)
	msgs = append(msgs, typeText("5")...)
	msgs = append(msgs, enter)
	m = press(t, m, msgs...)

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, 3, m.Session().Len())
	_, ok := m.Session().Selected()
	assert.False(t, ok, "append clears the selection")
	assert.Equal(t, 1, st.saves)
	assert.Contains(t, m.View(), "Added Chandra.")
}

func TestAddCustomerForm_ValidationKeepsForm(t *testing.T) {
	m, st, _ := newModel(t)

	msgs := []tea.Msg{keyRunes("a")}
	msgs = append(msgs, typeText("Chandra")...)
	msgs = append(msgs, tab, tab, tab, enter)
	m = press(t, m, msgs...)

	assert.Equal(t, modeAdd, m.mode)
	assert.True(t, m.statusErr)
	assert.Equal(t, "Please fill all fields.", m.status)
	assert.Zero(t, st.saves)

	m = press(t, m, esc)
	assert.Equal(t, modeList, m.mode)
}

func TestPayment(t *testing.T) {
	m, st, op := newModel(t, sample()...)
	m = press(t, m, enter, keyRunes("p"))
	require.Equal(t, modePay, m.mode)

	msgs := append(typeText("5"), enter)
	m = press(t, m, msgs...)

	c, err := m.Session().At(0)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, c.Payment, 1e-9)
	assert.Equal(t, 0, m.Session().SelectedIndex())
	assert.Equal(t, 1, st.saves)
	require.Len(t, op.uris, 1)
	assert.Contains(t, op.uris[0], "https://wa.me/977981234567?text=")
	assert.Contains(t, m.View(), "Recorded 5.0 from A. Due: 2.0")
}

func TestPayment_ShowsLink(t *testing.T) {
	m, _, _ := newModel(t, sample()...)
	m = m.WithLinks(true)

	msgs := append([]tea.Msg{enter, keyRunes("p")}, typeText("5")...)
	m = press(t, m, append(msgs, enter)...)

	assert.Contains(t, m.status, "Recorded 5.0 from A. Due: 2.0 Open to send: https://wa.me/977981234567?text=")
	assert.False(t, m.statusErr)
}

func TestPayment_RequiresSelection(t *testing.T) {
	m, _, _ := newModel(t, sample()...)

	m = press(t, m, keyRunes("p"))
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Please select a customer.", m.status)
}

func TestPayment_RejectsNonPositive(t *testing.T) {
	m, st, _ := newModel(t, sample()...)
	m = press(t, m, enter, keyRunes("p"))

	msgs := append(typeText("-5"), enter)
	m = press(t, m, msgs...)

	assert.Equal(t, modePay, m.mode)
	assert.Equal(t, "Payment must be positive.", m.status)
	assert.Zero(t, st.saves)
}

func TestRaiseMonthly(t *testing.T) {
	m, _, op := newModel(t, sample()...)
	m = press(t, m, down, enter, keyRunes("m"))

	msgs := append(typeText("2.5"), enter)
	m = press(t, m, msgs...)

	c, _ := m.Session().At(1)
	assert.InDelta(t, 22.5, c.Monthly, 1e-9)
	assert.Empty(t, op.uris)
}

func TestRemoveConfirm(t *testing.T) {
	m, st, _ := newModel(t, sample()...)
	m = press(t, m, enter, keyRunes("d"))

	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), "Name: A, Phone: 0981234567?")

	m = press(t, m, keyRunes("y"))
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, 1, m.Session().Len())
	assert.Equal(t, 1, st.saves)
	assert.Equal(t, billing.Idle, m.flow.State())
	assert.Contains(t, m.View(), "Removed A.")
}

func TestRemoveCancel(t *testing.T) {
	m, st, _ := newModel(t, sample()...)
	m = press(t, m, enter, keyRunes("d"), keyRunes("z"))
	assert.Equal(t, modeConfirm, m.mode, "other keys are ignored")

	m = press(t, m, keyRunes("n"))
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, 2, m.Session().Len())
	assert.Equal(t, 0, m.Session().SelectedIndex())
	assert.Zero(t, st.saves)
}

func TestRemove_RequiresSelection(t *testing.T) {
	m, _, _ := newModel(t, sample()...)

	m = press(t, m, keyRunes("d"))
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Please select a customer to remove.", m.status)
}

func TestPersistenceErrorShown(t *testing.T) {
	m, st, op := newModel(t, sample()...)
	st.err = ierr.NewError("file locked").Mark(ierr.ErrIO)
	m = press(t, m, enter, keyRunes("p"))

	msgs := append(typeText("5"), enter)
	m = press(t, m, msgs...)

	assert.True(t, m.statusErr)
	assert.Equal(t, modeList, m.mode)
	c, _ := m.Session().At(0)
	assert.InDelta(t, 8.0, c.Payment, 1e-9, "memory keeps the payment")
	assert.Empty(t, op.uris)
}

func TestQuit(t *testing.T) {
	m, _, _ := newModel(t)

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEmptyView(t *testing.T) {
	m, _, _ := newModel(t)
	assert.Contains(t, m.View(), "No customers yet")
}
