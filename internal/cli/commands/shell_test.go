package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapledger/internal/billing"
	"github.com/leapstack-labs/leapledger/internal/cli/testutil"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/internal/store"
)

func newTestShell(t *testing.T, answer billing.Decision) (*shellSession, *testutil.TestRenderer, string) {
	t.Helper()
	path := testutil.SetupTestLedger(t, testutil.SampleCustomers()...)
	st, err := store.Open(path)
	require.NoError(t, err)

	tr := testutil.NewTestRendererMarkdown()
	confirm := billing.ConfirmerFunc(func(context.Context, billing.RemovalPrompt) (billing.Decision, error) {
		return answer, nil
	})
	s := newShellSession(billing.NewService(st), ledger.New(testutil.SampleCustomers()), tr.Renderer, confirm)
	return s, tr, path
}

func TestShell_PayNeedsSelection(t *testing.T) {
	s, tr, _ := newTestShell(t, billing.Confirm)

	assert.False(t, s.exec(context.Background(), "pay 100"))
	assert.Contains(t, tr.ErrorOutput(), "Please select a customer.")
}

func TestShell_SelectAndPay(t *testing.T) {
	s, tr, path := newTestShell(t, billing.Confirm)
	ctx := context.Background()

	s.exec(ctx, "select 1")
	assert.Contains(t, tr.Output(), "Selected 1: Asha Rai")

	s.exec(ctx, "pay 100")
	assert.Empty(t, tr.ErrorOutput())
	assert.InDelta(t, 600.0, testutil.ReadLedger(t, path)[0].Payment, 1e-9)
	assert.Equal(t, 0, s.sess.SelectedIndex(), "selection survives a payment")

	s.exec(ctx, "raise 500")
	assert.InDelta(t, 2000.0, testutil.ReadLedger(t, path)[0].Monthly, 1e-9)
}

func TestShell_PayValidation(t *testing.T) {
	s, tr, _ := newTestShell(t, billing.Confirm)
	ctx := context.Background()

	s.exec(ctx, "select 2")
	s.exec(ctx, "pay")
	s.exec(ctx, "pay -5")
	s.exec(ctx, "raise abc")

	errOut := tr.ErrorOutput()
	assert.Contains(t, errOut, "Please enter payment amount.")
	assert.Contains(t, errOut, "Payment must be positive.")
	assert.Contains(t, errOut, "Monthly increment must be positive.")
}

func TestShell_AddQuotedName(t *testing.T) {
	s, tr, path := newTestShell(t, billing.Confirm)

	s.exec(context.Background(), `add "Dipesh K C" 0980000000 700 0`)
	assert.Contains(t, tr.Output(), "Added Dipesh K C as customer 4")

	got := testutil.ReadLedger(t, path)
	require.Len(t, got, 4)
	assert.Equal(t, "Dipesh K C", got[3].Name)
}

func TestShell_Remove(t *testing.T) {
	tests := []struct {
		name   string
		answer billing.Decision
		want   int
	}{
		{"confirmed", billing.Confirm, 2},
		{"cancelled", billing.Cancel, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, path := newTestShell(t, tt.answer)

			s.exec(context.Background(), "remove 2")
			assert.Len(t, testutil.ReadLedger(t, path), tt.want)
			assert.Equal(t, tt.want, s.sess.Len())
		})
	}
}

func TestShell_RemoveNeedsSelection(t *testing.T) {
	s, tr, _ := newTestShell(t, billing.Confirm)

	s.exec(context.Background(), "remove")
	assert.Contains(t, tr.ErrorOutput(), "Please select a customer to remove.")
}

func TestShell_Commands(t *testing.T) {
	s, tr, _ := newTestShell(t, billing.Confirm)
	ctx := context.Background()

	assert.False(t, s.exec(ctx, ""))
	assert.False(t, s.exec(ctx, "help"))
	assert.Contains(t, tr.Output(), "Commands:")
	assert.False(t, s.exec(ctx, "list"))
	assert.Contains(t, tr.Output(), "# Customers (3 total)")
	assert.False(t, s.exec(ctx, "frobnicate"))
	assert.Contains(t, tr.ErrorOutput(), `Unknown command "frobnicate"`)
	assert.True(t, s.exec(ctx, "quit"))
	assert.True(t, s.exec(ctx, "EXIT"))
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"", nil, false},
		{"  list  ", []string{"list"}, false},
		{"pay 100", []string{"pay", "100"}, false},
		{`add "Asha Rai" 098 10 0`, []string{"add", "Asha Rai", "098", "10", "0"}, false},
		{`add 'Ram''s' x`, []string{"add", "Rams", "x"}, false},
		{`add "" 1`, []string{"add", "", "1"}, false},
		{`add Ram\'s x`, []string{"add", "Ram's", "x"}, false},
		{`add "Asha \"Didi\" Rai" 1`, []string{"add", `Asha "Didi" Rai`, "1"}, false},
		{`add "open`, nil, true},
		{`add 'open`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				assert.Equal(t, "Close the quote before pressing enter.", ierr.DisplayMessage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
