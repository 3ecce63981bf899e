package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStoreWithDB(sqlx.NewDb(db, "postgres")), mock
}

func TestAccrueUpsert(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO revenue_ledger")).
		WithArgs(int64(10), int64(101), "accommodation", "1000000").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := st.Accrue(context.Background(), st.DB(), 10, 101, "accommodation", decimal.NewFromInt(1_000_000))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccrueZeroAmountWritesNothing(t *testing.T) {
	st, mock := newTestStore(t)

	err := st.Accrue(context.Background(), st.DB(), 10, 101, "restaurant", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccrueNegativeAmountRejected(t *testing.T) {
	st, mock := newTestStore(t)

	err := st.Accrue(context.Background(), st.DB(), 10, 101, "restaurant", decimal.NewFromInt(-1))
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerByPartner(t *testing.T) {
	st, mock := newTestStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"schedule_id", "partner_id", "partner_type", "amount", "created_at", "updated_at"}).
		AddRow(int64(10), int64(101), "accommodation", "1000000.00", now, now).
		AddRow(int64(9), int64(101), "accommodation", "500000.00", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM revenue_ledger WHERE partner_id = $1 ORDER BY updated_at DESC")).
		WithArgs(int64(101)).
		WillReturnRows(rows)

	ledger, err := st.LedgerByPartner(context.Background(), 101)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, int64(10), ledger[0].ScheduleID)
	assert.True(t, ledger[0].Amount.Equal(decimal.NewFromInt(1_000_000)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnerRevenueTotal(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM revenue_ledger WHERE partner_id = $1")).
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("1600000.00"))

	total, err := st.PartnerRevenueTotal(context.Background(), 101)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1_600_000)), total.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
