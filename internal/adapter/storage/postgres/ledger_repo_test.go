package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedgerEntry() *domain.LedgerEntry {
	ref := "TOPUP-42-1700000000-abcdef"
	return &domain.LedgerEntry{
		ID:            uuid.New(),
		UserID:        42,
		Type:          domain.LedgerTypeTopup,
		Amount:        50000,
		Description:   "Top up via GoPay",
		Status:        domain.LedgerStatusSuccess,
		ReferenceID:   &ref,
		BalanceBefore: 10000,
		BalanceAfter:  60000,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestLedgerRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	entry := newTestLedgerEntry()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_entries").
		WithArgs(entry.ID, entry.UserID, string(entry.Type), entry.Amount, entry.Description,
			string(entry.Status), entry.ReferenceID, entry.BalanceBefore, entry.BalanceAfter, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_Create_DuplicateReference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	entry := newTestLedgerEntry()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_entries").
		WithArgs(entry.ID, entry.UserID, string(entry.Type), entry.Amount, entry.Description,
			string(entry.Status), entry.ReferenceID, entry.BalanceBefore, entry.BalanceAfter, entry.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ledger_entries_reference_id_type_key"})

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, entry)
	assert.ErrorIs(t, err, ports.ErrDuplicateLedgerEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_ExistsByReference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("TOPUP-42-1700000000-abcdef", string(domain.LedgerTypeTopup)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByReference(context.Background(), "TOPUP-42-1700000000-abcdef", domain.LedgerTypeTopup)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_ExistsByReference_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("TOPUP-UNKNOWN", string(domain.LedgerTypeTopup)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByReference(context.Background(), "TOPUP-UNKNOWN", domain.LedgerTypeTopup)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
