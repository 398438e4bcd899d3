package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/models"
)

var retailerAssignmentCols = []string{"id", "retailer_id", "plan_id", "store_id", "created_at"}

func createdAtRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now())
}

func TestCreateManagerAssignment(t *testing.T) {
	ctx := context.Background()
	admin := principal(models.RoleAdmin)

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		manager := principal(models.RoleManager)
		store := uuid.New()
		req := models.ManagerAssignmentRequest{ManagerID: manager.ID, PlanID: uuid.New(), StoreID: &store}

		env.mock.ExpectBegin()
		env.mock.ExpectQuery(`FROM user_profiles WHERE id = \$1`).
			WithArgs(manager.ID).
			WillReturnRows(principalRows(manager))
		env.mock.ExpectQuery(`INSERT INTO manager_assignments`).
			WithArgs(sqlmock.AnyArg(), manager.ID, req.PlanID, store).
			WillReturnRows(createdAtRow())
		env.mock.ExpectCommit()

		a, err := env.assignmentService().CreateManagerAssignment(ctx, admin, req)
		require.NoError(t, err)
		assert.Equal(t, manager.ID, a.ManagerID)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Assignee must be a manager", func(t *testing.T) {
		env := newTestEnv(t)
		retailer := principal(models.RoleRetailer)

		env.mock.ExpectBegin()
		env.mock.ExpectQuery(`FROM user_profiles WHERE id = \$1`).
			WithArgs(retailer.ID).
			WillReturnRows(principalRows(retailer))
		env.mock.ExpectRollback()

		_, err := env.assignmentService().CreateManagerAssignment(ctx, admin,
			models.ManagerAssignmentRequest{ManagerID: retailer.ID, PlanID: uuid.New()})
		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "user profile must have role manager", vErr.Fields["manager_id"])
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Managers cannot assign managers", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.assignmentService().CreateManagerAssignment(ctx, principal(models.RoleManager),
			models.ManagerAssignmentRequest{ManagerID: uuid.New(), PlanID: uuid.New()})
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
}

func TestListManagerAssignments(t *testing.T) {
	env := newTestEnv(t)
	manager := principal(models.RoleManager)
	store := uuid.New()

	env.mock.ExpectQuery(`FROM manager_assignments`).
		WithArgs(manager.ID).
		WillReturnRows(sqlmock.NewRows(managerAssignmentCols).
			AddRow(uuid.New().String(), manager.ID.String(), uuid.New().String(), store.String(), time.Now()))

	list, err := env.assignmentService().ListManagerAssignments(context.Background(), manager)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].StoreID)
	assert.Equal(t, store, *list[0].StoreID)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateRetailerAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("Manager assigns within an assigned store", func(t *testing.T) {
		env := newTestEnv(t)
		manager := principal(models.RoleManager)
		retailer := principal(models.RoleRetailer)
		store := uuid.New()
		req := models.RetailerAssignmentRequest{RetailerID: retailer.ID, PlanID: uuid.New(), StoreID: &store}

		env.mock.ExpectBegin()
		env.mock.ExpectQuery(`SELECT DISTINCT store_id FROM manager_assignments`).
			WithArgs(manager.ID).
			WillReturnRows(storeIDRows(store))
		env.mock.ExpectQuery(`FROM user_profiles WHERE id = \$1`).
			WithArgs(retailer.ID).
			WillReturnRows(principalRows(retailer))
		env.mock.ExpectQuery(`INSERT INTO retailer_assignments`).
			WithArgs(sqlmock.AnyArg(), retailer.ID, req.PlanID, store).
			WillReturnRows(createdAtRow())
		env.mock.ExpectCommit()

		a, err := env.assignmentService().CreateRetailerAssignment(ctx, manager, req)
		require.NoError(t, err)
		assert.Equal(t, retailer.ID, a.RetailerID)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Manager outside the store is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		manager := principal(models.RoleManager)
		store := uuid.New()

		env.mock.ExpectBegin()
		env.mock.ExpectQuery(`SELECT DISTINCT store_id FROM manager_assignments`).
			WillReturnRows(storeIDRows(uuid.New()))
		env.mock.ExpectRollback()

		_, err := env.assignmentService().CreateRetailerAssignment(ctx, manager,
			models.RetailerAssignmentRequest{RetailerID: uuid.New(), PlanID: uuid.New(), StoreID: &store})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.Equal(t, MsgAssignmentOutOfScope, err.Error())
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Manager cannot assign without a store", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectBegin()
		env.mock.ExpectRollback()

		_, err := env.assignmentService().CreateRetailerAssignment(ctx, principal(models.RoleManager),
			models.RetailerAssignmentRequest{RetailerID: uuid.New(), PlanID: uuid.New()})
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Retailers cannot assign", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.assignmentService().CreateRetailerAssignment(ctx, principal(models.RoleRetailer),
			models.RetailerAssignmentRequest{RetailerID: uuid.New(), PlanID: uuid.New()})
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
}

func TestGetRetailerAssignment(t *testing.T) {
	ctx := context.Background()
	store := uuid.New()
	owner := uuid.New()
	id := uuid.New()
	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows(retailerAssignmentCols).
			AddRow(id.String(), owner.String(), uuid.New().String(), store.String(), time.Now())
	}

	t.Run("Other retailers get not found", func(t *testing.T) {
		env := newTestEnv(t)
		env.mock.ExpectQuery(`FROM retailer_assignments WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(rows())

		_, err := env.assignmentService().GetRetailerAssignment(ctx, principal(models.RoleRetailer), id)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("Manager of the store sees it", func(t *testing.T) {
		env := newTestEnv(t)
		manager := principal(models.RoleManager)
		env.mock.ExpectQuery(`FROM retailer_assignments WHERE id = \$1`).WillReturnRows(rows())
		env.mock.ExpectQuery(`FROM manager_assignments`).
			WithArgs(manager.ID).
			WillReturnRows(storeIDRows(store))

		a, err := env.assignmentService().GetRetailerAssignment(ctx, manager, id)
		require.NoError(t, err)
		assert.Equal(t, owner, a.RetailerID)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestDeleteRetailerAssignment(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.mock.ExpectBegin()
	env.mock.ExpectExec(`DELETE FROM retailer_assignments WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	err := env.assignmentService().DeleteRetailerAssignment(context.Background(), principal(models.RoleAdmin), id)
	require.NoError(t, err)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}
