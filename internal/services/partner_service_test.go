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

func (e *testEnv) partnerService() *PartnerService {
	return NewPartnerService(e.gate, e.partners, e.links, e.logger)
}

func TestPartnerAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("Every role reads partners", func(t *testing.T) {
		for _, role := range []models.Role{models.RoleAdmin, models.RoleManager, models.RoleRetailer} {
			env := newTestEnv(t)
			now := time.Now()
			env.mock.ExpectQuery(`FROM partners ORDER BY name`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
					AddRow(uuid.New().String(), "Acme Electronics", now, now))

			partners, err := env.partnerService().ListPartners(ctx, principal(role))
			require.NoError(t, err, role)
			assert.Len(t, partners, 1)
		}
	})

	t.Run("Only admins write", func(t *testing.T) {
		env := newTestEnv(t)
		svc := env.partnerService()
		manager := principal(models.RoleManager)

		_, err := svc.CreatePartner(ctx, manager, models.CreatePartnerRequest{Name: "Acme"})
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))

		_, err = svc.CreatePartnerItem(ctx, principal(models.RoleRetailer), models.PartnerItemRequest{})
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))

		err = svc.DeletePartnerPlan(ctx, manager, uuid.New())
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
}

func TestCreatePartner(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		env.mock.ExpectQuery(`INSERT INTO partners`).
			WithArgs(sqlmock.AnyArg(), "Acme Electronics").
			WillReturnRows(timestampRows())

		partner, err := env.partnerService().CreatePartner(ctx, principal(models.RoleAdmin),
			models.CreatePartnerRequest{Name: "Acme Electronics"})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, partner.ID)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Name is required", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.partnerService().CreatePartner(ctx, principal(models.RoleAdmin), models.CreatePartnerRequest{})

		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "name")
	})
}

func TestPartnerLinks(t *testing.T) {
	ctx := context.Background()

	t.Run("Create partner item", func(t *testing.T) {
		env := newTestEnv(t)
		req := models.PartnerItemRequest{PartnerID: uuid.New(), ItemID: uuid.New()}
		env.mock.ExpectQuery(`INSERT INTO partner_items`).
			WithArgs(sqlmock.AnyArg(), req.PartnerID, req.ItemID, nil).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		link, err := env.partnerService().CreatePartnerItem(ctx, principal(models.RoleAdmin), req)
		require.NoError(t, err)
		assert.Equal(t, req.ItemID, link.ItemID)
		assert.Nil(t, link.StoreID)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Blank ids are rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.partnerService().CreatePartnerPlan(ctx, principal(models.RoleAdmin), models.PartnerPlanRequest{})

		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "partner_id")
		assert.Contains(t, vErr.Fields, "plan_id")
	})

	t.Run("Update replaces the partner plan", func(t *testing.T) {
		env := newTestEnv(t)
		id := uuid.New()
		req := models.PartnerPlanRequest{PartnerID: uuid.New(), PlanID: uuid.New()}

		env.mock.ExpectQuery(`FROM partner_plans WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "partner_id", "plan_id", "created_at"}).
				AddRow(id.String(), uuid.New().String(), uuid.New().String(), time.Now()))
		env.mock.ExpectExec(`UPDATE partner_plans SET partner_id = \$2, plan_id = \$3 WHERE id = \$1`).
			WithArgs(id, req.PartnerID, req.PlanID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		link, err := env.partnerService().UpdatePartnerPlan(ctx, principal(models.RoleAdmin), id, req)
		require.NoError(t, err)
		assert.Equal(t, req.PlanID, link.PlanID)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Deleting a missing link", func(t *testing.T) {
		env := newTestEnv(t)
		id := uuid.New()
		env.mock.ExpectExec(`DELETE FROM partner_items WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := env.partnerService().DeletePartnerItem(ctx, principal(models.RoleAdmin), id)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}
