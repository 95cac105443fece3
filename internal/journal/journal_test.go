package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapledger/pkg/core"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(MemoryPath)
	require.NoError(t, err)
	require.NoError(t, j.Migrate())
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestMigrate(t *testing.T) {
	j := openTestJournal(t)

	v, err := j.Version()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// idempotent
	require.NoError(t, j.Migrate())
}

func TestRecordAndList(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	c := core.Customer{Name: "A", Phone: "+977981234567", Monthly: 10, Payment: 8}

	first, err := j.Record(ctx, core.NewEvent(core.EventCustomerAdded, core.Customer{Name: "A", Phone: "+977981234567", Monthly: 10, Payment: 3}, 3))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := j.Record(ctx, core.NewEvent(core.EventPaymentRecorded, c, 5))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	events, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// newest first
	assert.Equal(t, second.ID, events[0].ID)
	assert.Equal(t, core.EventPaymentRecorded, events[0].Kind)
	assert.Equal(t, "A", events[0].Customer)
	assert.InDelta(t, 5.0, events[0].Amount, 1e-9)
	assert.InDelta(t, 2.0, events[0].Due, 1e-9)
	assert.WithinDuration(t, second.CreatedAt, events[0].CreatedAt, time.Millisecond)
	assert.Equal(t, first.ID, events[1].ID)

	limited, err := j.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second.ID, limited[0].ID)
}

func TestOpen_FileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".leapledger", "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Migrate())
	_, err = j.Record(context.Background(), core.NewEvent(core.EventCustomerRemoved, core.Customer{Name: "B", Phone: "+1"}, 0))
	require.NoError(t, err)
	require.NoError(t, j.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Migrate())

	events, err := reopened.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, path, reopened.Path())
}

func TestRecord_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	j := NewWithDB(db, "mock")

	mock.ExpectExec("INSERT INTO events").
		WithArgs(sqlmock.AnyArg(), "payment_recorded", "A", "+1", 5.0, 10.0, 8.0, 2.0, sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))

	_, err = j.Record(context.Background(), core.NewEvent(core.EventPaymentRecorded, core.Customer{Name: "A", Phone: "+1", Monthly: 10, Payment: 8}, 5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_DatabaseErrors(t *testing.T) {
	columns := []string{"id", "kind", "customer", "phone", "amount", "monthly", "payment", "due", "created_at"}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		errMsg    string
	}{
		{
			name: "query fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM events").WillReturnError(errors.New("no such table"))
			},
			errMsg: "no such table",
		},
		{
			name: "bad timestamp",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow("e1", "customer_added", "A", "+1", 0.0, 1.0, 0.0, 1.0, "yesterday")
				mock.ExpectQuery("SELECT (.+) FROM events").WithArgs(5).WillReturnRows(rows)
			},
			errMsg: "bad timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			_, err = NewWithDB(db, "mock").List(context.Background(), 5)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNotOpened(t *testing.T) {
	j := &Journal{}

	_, err := j.Record(context.Background(), core.Event{})
	assert.Error(t, err)
	_, err = j.List(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, j.Migrate())
	assert.NoError(t, j.Close())
}
