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

func storeRow(id *uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"store_id"})
	if id == nil {
		return rows.AddRow(nil)
	}
	return rows.AddRow(id.String())
}

func TestUpdatePlan(t *testing.T) {
	ctx := context.Background()
	duration := 24

	newPlan := func() models.Plan {
		return models.Plan{
			ID:             uuid.New(),
			ItemID:         uuid.New(),
			Category:       models.PlanCategoryExtendedWarranty,
			DurationMonths: 12,
			IsActive:       true,
		}
	}

	t.Run("Manager updates a plan of their own store", func(t *testing.T) {
		env := newTestEnv(t)
		manager := principal(models.RoleManager)
		plan := newPlan()

		env.mock.ExpectBegin()
		env.mock.ExpectQuery(`FROM manager_assignments`).
			WithArgs(manager.ID).
			WillReturnRows(storeIDRows(manager.StoreID))
		env.mock.ExpectQuery(`FROM plans p JOIN items i ON i.id = p.item_id JOIN manager_assignments ma`).
			WithArgs(sqlmock.AnyArg(), plan.ID).
			WillReturnRows(planRows(plan))
		env.mock.ExpectQuery(`LEFT JOIN manager_assignments ma ON ma.id = i.manager_assignment_id`).
			WithArgs(plan.ItemID).
			WillReturnRows(storeRow(&manager.StoreID))
		env.mock.ExpectQuery(`UPDATE plans SET`).
			WithArgs(plan.ID, plan.ItemID, plan.Category, 24, true, nil, manager.ID).
			WillReturnRows(sqlmock.NewRows([]string{"modified_at"}).AddRow(time.Now()))
		env.mock.ExpectCommit()

		updated, err := env.planService().UpdatePlan(ctx, manager, plan.ID, models.UpdatePlanRequest{DurationMonths: &duration})
		require.NoError(t, err)
		assert.Equal(t, 24, updated.DurationMonths)
		require.NotNil(t, updated.ModifiedBy)
		assert.Equal(t, manager.ID, *updated.ModifiedBy)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Manager cannot update a plan assigned to another store", func(t *testing.T) {
		env := newTestEnv(t)
		manager := principal(models.RoleManager)
		other := uuid.New()
		plan := newPlan()

		env.mock.ExpectBegin()
		env.mock.ExpectQuery(`FROM manager_assignments`).
			WillReturnRows(storeIDRows(other))
		env.mock.ExpectQuery(`FROM plans p JOIN items i`).
			WillReturnRows(planRows(plan))
		env.mock.ExpectQuery(`LEFT JOIN manager_assignments`).
			WithArgs(plan.ItemID).
			WillReturnRows(storeRow(&other))
		env.mock.ExpectRollback()

		_, err := env.planService().UpdatePlan(ctx, manager, plan.ID, models.UpdatePlanRequest{DurationMonths: &duration})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.Equal(t, MsgPlanStoreMismatch, err.Error())
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Item without a manager assignment is forbidden for managers", func(t *testing.T) {
		env := newTestEnv(t)
		manager := principal(models.RoleManager)
		plan := newPlan()

		env.mock.ExpectBegin()
		env.mock.ExpectQuery(`FROM manager_assignments`).
			WillReturnRows(storeIDRows(manager.StoreID))
		env.mock.ExpectQuery(`FROM plans p JOIN items i`).
			WillReturnRows(planRows(plan))
		env.mock.ExpectQuery(`LEFT JOIN manager_assignments`).
			WillReturnRows(storeRow(nil))
		env.mock.ExpectRollback()

		_, err := env.planService().UpdatePlan(ctx, manager, plan.ID, models.UpdatePlanRequest{DurationMonths: &duration})
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})

	t.Run("Retailers cannot update plans", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.planService().UpdatePlan(ctx, principal(models.RoleRetailer), uuid.New(), models.UpdatePlanRequest{})
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestCreatePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing item is a validation error", func(t *testing.T) {
		env := newTestEnv(t)
		req := models.CreatePlanRequest{
			ItemID:         uuid.New(),
			Category:       models.PlanCategoryADLD,
			DurationMonths: 12,
		}

		env.mock.ExpectBegin()
		env.mock.ExpectQuery(`FROM items i WHERE i.id = \$1`).
			WithArgs(req.ItemID).
			WillReturnRows(sqlmock.NewRows(itemCols))
		env.mock.ExpectRollback()

		_, err := env.planService().CreatePlan(ctx, principal(models.RoleAdmin), req)
		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "item_id")
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Assigned retailer must hold the retailer role", func(t *testing.T) {
		env := newTestEnv(t)
		manager := principal(models.RoleManager)
		notRetailer := principal(models.RoleManager)
		item := models.Item{ID: uuid.New(), Category: models.ItemCategoryMobile, StoreID: uuid.New(), ManagerID: uuid.New(), ESNNumber: "ESN-1"}
		req := models.CreatePlanRequest{
			ItemID:             item.ID,
			Category:           models.PlanCategoryADLD,
			DurationMonths:     12,
			AssignedRetailerID: &notRetailer.ID,
		}

		env.mock.ExpectBegin()
		env.mock.ExpectQuery(`FROM items i WHERE i.id = \$1`).WillReturnRows(itemRows(item))
		env.mock.ExpectQuery(`FROM user_profiles WHERE id = \$1`).
			WithArgs(notRetailer.ID).
			WillReturnRows(principalRows(notRetailer))
		env.mock.ExpectRollback()

		_, err := env.planService().CreatePlan(ctx, manager, req)
		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "assigned_retailer_id")
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}
