package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentRepository_StoreIDs(t *testing.T) {
	ctx := context.Background()
	principal := uuid.New()
	s1, s2 := uuid.New(), uuid.New()

	t.Run("Manager", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAssignmentRepository(db)

		mock.ExpectQuery(`SELECT DISTINCT store_id FROM manager_assignments WHERE manager_id = \$1`).
			WithArgs(principal).
			WillReturnRows(sqlmock.NewRows([]string{"store_id"}).AddRow(s1.String()).AddRow(s2.String()))

		ids, err := repo.StoreIDsForManager(ctx, principal)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{s1, s2}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retailer without assignments", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAssignmentRepository(db)

		mock.ExpectQuery(`SELECT DISTINCT store_id FROM retailer_assignments WHERE retailer_id = \$1`).
			WithArgs(principal).
			WillReturnRows(sqlmock.NewRows([]string{"store_id"}))

		ids, err := repo.StoreIDsForRetailer(ctx, principal)
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAssignmentRepository_RetailerAssignmentExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)
	retailer, plan, store := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM retailer_assignments WHERE retailer_id = \$1 AND plan_id = \$2 AND store_id = \$3 \)`).
		WithArgs(retailer, plan, store).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.RetailerAssignmentExists(context.Background(), retailer, plan, store)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
