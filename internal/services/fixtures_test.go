package services

import (
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/plancare/plansale-backend/internal/access"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/models"
)

var (
	itemCols = []string{
		"id", "category", "type", "brand_warranty_months", "store_id",
		"manager_assignment_id", "retailer_assignment_id", "manager_id", "purchase_date",
		"esn_number", "created_at", "updated_at",
	}
	planCols = []string{
		"id", "item_id", "category", "duration_months", "is_active",
		"assigned_retailer_id", "created_by", "modified_by", "created_at", "modified_at",
	}
	saleCols = []string{
		"id", "item_id", "plan_id", "retailer_id", "customer_id",
		"plan_purchase_date", "plan_price", "plan_start_date", "plan_end_date",
		"created_at", "updated_at",
	}
	principalCols = []string{
		"id", "username", "email", "password_hash", "first_name", "last_name", "mobile", "address",
		"store_id", "role", "manager_id", "is_active", "created_at", "updated_at",
	}
	storeCols             = []string{"id", "partner_id", "gst_number", "mobile_number", "email", "address", "is_active", "created_at", "updated_at"}
	managerAssignmentCols = []string{"id", "manager_id", "plan_id", "store_id", "created_at"}
	customerCols          = []string{"id", "name", "email", "address", "phone_number"}
)

// testEnv wires every repository and service over a single sqlmock connection
type testEnv struct {
	mock        sqlmock.Sqlmock
	db          database.DB
	gate        *access.Gate
	logger      *logrus.Logger
	resolver    *AssignmentResolver
	items       *database.ItemRepository
	plans       *database.PlanRepository
	sales       *database.PlanSaleRepository
	customers   *database.CustomerRepository
	assignments *database.AssignmentRepository
	principals  *database.PrincipalRepository
	stores      *database.StoreRepository
	partners    *database.PartnerRepository
	links       *database.PartnerLinkRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db := database.Wrap(sqlx.NewDb(sqlDB, "sqlmock"))
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &testEnv{
		mock:        mock,
		db:          db,
		gate:        access.NewGate(),
		logger:      logger,
		items:       database.NewItemRepository(db),
		plans:       database.NewPlanRepository(db),
		sales:       database.NewPlanSaleRepository(db),
		customers:   database.NewCustomerRepository(db),
		assignments: database.NewAssignmentRepository(db),
		principals:  database.NewPrincipalRepository(db),
		stores:      database.NewStoreRepository(db),
		partners:    database.NewPartnerRepository(db),
		links:       database.NewPartnerLinkRepository(db),
	}
	env.resolver = NewAssignmentResolver(env.assignments, env.items, env.plans, env.sales, logger)
	return env
}

func (e *testEnv) planSaleService() *PlanSaleService {
	return NewPlanSaleService(e.db, e.gate, e.resolver, e.sales, e.items, e.plans, e.customers, e.assignments, e.logger)
}

func principal(role models.Role) models.Principal {
	return models.Principal{
		ID:       uuid.New(),
		Username: string(role) + ".user",
		StoreID:  uuid.New(),
		Role:     role,
		IsActive: true,
	}
}

func nullableID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

func nullableDate(d *models.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}

func itemRows(items ...models.Item) *sqlmock.Rows {
	rows := sqlmock.NewRows(itemCols)
	now := time.Now()
	for _, i := range items {
		rows.AddRow(
			i.ID.String(), string(i.Category), i.Type, i.BrandWarrantyMonths, i.StoreID.String(),
			nullableID(i.ManagerAssignmentID), nullableID(i.RetailerAssignmentID), i.ManagerID.String(),
			i.PurchaseDate.Time, i.ESNNumber, now, now,
		)
	}
	return rows
}

func planRows(plans ...models.Plan) *sqlmock.Rows {
	rows := sqlmock.NewRows(planCols)
	now := time.Now()
	for _, p := range plans {
		rows.AddRow(
			p.ID.String(), p.ItemID.String(), string(p.Category), p.DurationMonths, p.IsActive,
			nullableID(p.AssignedRetailerID), nullableID(p.CreatedBy), nullableID(p.ModifiedBy), now, now,
		)
	}
	return rows
}

func saleRows(sales ...models.PlanSale) *sqlmock.Rows {
	rows := sqlmock.NewRows(saleCols)
	now := time.Now()
	for _, s := range sales {
		rows.AddRow(
			s.ID.String(), s.ItemID.String(), s.PlanID.String(), s.RetailerID.String(), nullableID(s.CustomerID),
			s.PlanPurchaseDate.Time, s.PlanPrice.String(), nullableDate(s.PlanStartDate), nullableDate(s.PlanEndDate),
			now, now,
		)
	}
	return rows
}

func principalRows(principals ...models.Principal) *sqlmock.Rows {
	rows := sqlmock.NewRows(principalCols)
	now := time.Now()
	for _, p := range principals {
		rows.AddRow(
			p.ID.String(), p.Username, p.Email, p.PasswordHash, p.FirstName, p.LastName, p.Mobile, p.Address,
			p.StoreID.String(), string(p.Role), nullableID(p.ManagerID), p.IsActive, now, now,
		)
	}
	return rows
}

func storeIDRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"store_id"})
	for _, id := range ids {
		rows.AddRow(id.String())
	}
	return rows
}

func existsRow(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}

func timestampRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
}

func (e *testEnv) principalService() *PrincipalService {
	return NewPrincipalService(e.db, e.gate, e.principals, bcrypt.MinCost, e.logger)
}

func (e *testEnv) planService() *PlanService {
	return NewPlanService(e.db, e.gate, e.resolver, e.plans, e.items, e.principals, e.logger)
}

func (e *testEnv) assignmentService() *AssignmentService {
	return NewAssignmentService(e.db, e.gate, e.resolver, e.assignments, e.principals, e.logger)
}

func (e *testEnv) storeService() *StoreService {
	return NewStoreService(e.gate, e.stores, e.logger)
}
