package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func strPtr(s string) *string { return &s }

func newTestAction() *domain.ActionRecord {
	now := time.Now().UTC().Truncate(time.Microsecond)
	amount := decimal.RequireFromString("25.5")
	batch := uint64(4)
	return &domain.ActionRecord{
		ID:          uuid.New(),
		Kind:        domain.ActionKindDeposit,
		Wallet:      testWallet,
		ReferenceID: "dep-001",
		Amount:      &amount,
		BatchIndex:  &batch,
		TargetIndex: 3,
		Signature:   "5sig",
		Status:      domain.ActionStatusPending,
		CreatedAt:   now,
	}
}

func actionColumnNames() []string {
	return []string{"id", "kind", "wallet", "reference_id", "amount", "batch_index", "target_index",
		"signature", "status", "error", "created_at", "completed_at"}
}

func actionRow(rows *pgxmock.Rows, a *domain.ActionRecord) *pgxmock.Rows {
	return rows.AddRow(
		a.ID, a.Kind, a.Wallet, a.ReferenceID,
		a.Amount, a.BatchIndex, a.TargetIndex,
		a.Signature, a.Status, a.Error,
		a.CreatedAt, a.CompletedAt,
	)
}

func TestActionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepo(mock)
	a := newTestAction()

	mock.ExpectExec("INSERT INTO vault_actions").
		WithArgs(
			a.ID, a.Kind, a.Wallet, a.ReferenceID,
			a.Amount, a.BatchIndex, a.TargetIndex,
			a.Signature, a.Status, a.Error,
			a.CreatedAt, a.CompletedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepo(mock)
	mock.ExpectExec("INSERT INTO vault_actions").WillReturnError(errors.New("duplicate key"))

	err = repo.Create(context.Background(), newTestAction())
	assert.ErrorContains(t, err, "insert action")
}

func TestActionRepo_GetByReference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepo(mock)
	a := newTestAction()

	mock.ExpectQuery("SELECT .+ FROM vault_actions WHERE wallet .+ AND reference_id").
		WithArgs(a.Wallet, a.ReferenceID).
		WillReturnRows(actionRow(pgxmock.NewRows(actionColumnNames()), a))

	result, err := repo.GetByReference(context.Background(), a.Wallet, a.ReferenceID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.ID, result.ID)
	assert.Equal(t, a.ReferenceID, result.ReferenceID)
	require.NotNil(t, result.BatchIndex)
	assert.Equal(t, uint64(4), *result.BatchIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepo_GetByReference_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM vault_actions WHERE wallet").
		WithArgs(testWallet, "missing").
		WillReturnRows(pgxmock.NewRows(actionColumnNames()))

	result, err := repo.GetByReference(context.Background(), testWallet, "missing")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepo(mock)
	id := uuid.New()
	now := time.Now().UTC()
	msg := strPtr("blockhash not found")

	mock.ExpectExec("UPDATE vault_actions SET status").
		WithArgs(domain.ActionStatusFailed, msg, now, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateStatus(context.Background(), id, domain.ActionStatusFailed, msg, now)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepo(mock)

	mock.ExpectExec("UPDATE vault_actions SET status").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), uuid.New(), domain.ActionStatusConfirmed, nil, time.Now())
	assert.ErrorContains(t, err, "action not found")
}

func TestActionRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepo(mock)
	a := newTestAction()
	kind := domain.ActionKindDeposit

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(testWallet, kind).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM vault_actions WHERE wallet .+ ORDER BY created_at DESC LIMIT").
		WithArgs(testWallet, kind, 20, 20).
		WillReturnRows(actionRow(pgxmock.NewRows(actionColumnNames()), a))

	actions, total, err := repo.List(context.Background(), ports.ActionListParams{
		Wallet: testWallet, Kind: &kind, Page: 2, PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, actions, 1)
	assert.Equal(t, a.ID, actions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepo_List_NoFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepo(mock)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM vault_actions$").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT .+ FROM vault_actions\\s+ORDER BY").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(actionColumnNames()))

	actions, total, err := repo.List(context.Background(), ports.ActionListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, actions)
	assert.Empty(t, actions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
