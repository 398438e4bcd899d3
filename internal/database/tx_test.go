package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPartnerRepository(db)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM partners`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := WithTx(ctx, db, func(ctx context.Context) error {
			return repo.Delete(ctx, id)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := WithTx(ctx, db, func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nested joins outer transaction", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectCommit()

		calls := 0
		err := WithTx(ctx, db, func(ctx context.Context) error {
			return WithTx(ctx, db, func(ctx context.Context) error {
				calls++
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := WithTx(ctx, db, func(ctx context.Context) error {
			t.Fatal("fn must not run")
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
	})
}
