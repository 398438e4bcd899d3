package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/plancare/plansale-backend/internal/access"
	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/middleware"
	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/internal/services"
	"github.com/plancare/plansale-backend/pkg/jwt"
)

var (
	itemCols = []string{
		"id", "category", "type", "brand_warranty_months", "store_id",
		"manager_assignment_id", "retailer_assignment_id", "manager_id", "purchase_date",
		"esn_number", "created_at", "updated_at",
	}
	principalCols = []string{
		"id", "username", "email", "password_hash", "first_name", "last_name", "mobile", "address",
		"store_id", "role", "manager_id", "is_active", "created_at", "updated_at",
	}
	storeCols = []string{"id", "partner_id", "gst_number", "mobile_number", "email", "address", "is_active", "created_at", "updated_at"}
)

type testServer struct {
	mock   sqlmock.Sqlmock
	router *gin.Engine
	jwt    *jwt.Service
}

// newTestServer mounts every handler over sqlmock. A non-nil caller is
// injected in place of the token middleware.
func newTestServer(t *testing.T, caller *models.Principal) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db := database.Wrap(sqlx.NewDb(sqlDB, "sqlmock"))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	gate := access.NewGate()
	jwtService := jwt.NewService("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)

	principals := database.NewPrincipalRepository(db)
	items := database.NewItemRepository(db)
	plans := database.NewPlanRepository(db)
	sales := database.NewPlanSaleRepository(db)
	assignments := database.NewAssignmentRepository(db)
	resolver := services.NewAssignmentResolver(assignments, items, plans, sales, logger)

	limit, err := middleware.RateLimit("2-M", logger)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/health", NewHealthHandler(db, logger).Health)
	v1 := router.Group("/api/v1")
	NewTokenHandler(services.NewAuthService(principals, jwtService, logger), logger).Register(v1, limit)

	protected := v1.Group("")
	if caller != nil {
		protected.Use(func(c *gin.Context) {
			c.Set(middleware.PrincipalContextKey, *caller)
			c.Next()
		})
	}
	NewStoreHandler(services.NewStoreService(gate, database.NewStoreRepository(db), logger), logger).Register(protected)
	NewPrincipalHandler(services.NewPrincipalService(db, gate, principals, bcrypt.MinCost, logger), logger).Register(protected)
	NewCatalogHandler(
		services.NewItemService(db, gate, resolver, items, principals, logger),
		services.NewPlanService(db, gate, resolver, plans, items, principals, logger),
		logger,
	).Register(protected)
	NewPlanSaleHandler(services.NewPlanSaleService(db, gate, resolver, sales, items, plans,
		database.NewCustomerRepository(db), assignments, logger), logger).Register(protected)
	NewAssignmentHandler(services.NewAssignmentService(db, gate, resolver, assignments, principals, logger), logger).Register(protected)
	NewPartnerHandler(services.NewPartnerService(gate, database.NewPartnerRepository(db),
		database.NewPartnerLinkRepository(db), logger), logger).Register(protected)

	return &testServer{mock: mock, router: router, jwt: jwtService}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.20:51000"
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func caller(role models.Role) *models.Principal {
	return &models.Principal{ID: uuid.New(), Username: "caller", StoreID: uuid.New(), Role: role, IsActive: true}
}

func TestPlanSaleHandler_Create(t *testing.T) {
	t.Run("Second sale for an item is a conflict", func(t *testing.T) {
		srv := newTestServer(t, caller(models.RoleRetailer))
		now := time.Now()
		itemID := uuid.New()

		srv.mock.ExpectBegin()
		srv.mock.ExpectQuery(`FROM items i WHERE i.esn_number = \$1`).
			WithArgs("ESN-42").
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow(
				itemID.String(), "mobile", "Phone", 12, uuid.New().String(),
				nil, nil, uuid.New().String(), now, "ESN-42", now, now))
		srv.mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(itemID, nil).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		srv.mock.ExpectRollback()

		w := srv.do(http.MethodPost, "/api/v1/plansales", gin.H{
			"esn_number": "ESN-42",
			"plan_id":    uuid.New(),
			"plan_price": "999.00",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "CONFLICT", resp.Code)
		assert.Equal(t, database.MsgItemAlreadySold, resp.Message)
		assert.NoError(t, srv.mock.ExpectationsWereMet())
	})

	t.Run("Validation errors carry field details", func(t *testing.T) {
		srv := newTestServer(t, caller(models.RoleRetailer))

		w := srv.do(http.MethodPost, "/api/v1/plansales", gin.H{"plan_price": "-1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "VALIDATION_ERROR", resp.Code)
		assert.Contains(t, resp.Details, "esn_number")
		assert.Contains(t, resp.Details, "plan_id")
	})

	t.Run("Malformed body", func(t *testing.T) {
		srv := newTestServer(t, caller(models.RoleRetailer))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/plansales", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_BODY", decodeError(t, w).Code)
	})
}

func TestPlanSaleHandler_Delete(t *testing.T) {
	t.Run("Manager is forbidden", func(t *testing.T) {
		srv := newTestServer(t, caller(models.RoleManager))

		w := srv.do(http.MethodDelete, "/api/v1/plansales/"+uuid.New().String(), nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "forbidden", decodeError(t, w).Error)
	})

	t.Run("Invalid id", func(t *testing.T) {
		srv := newTestServer(t, caller(models.RoleAdmin))

		w := srv.do(http.MethodDelete, "/api/v1/plansales/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_ID", decodeError(t, w).Code)
	})

	t.Run("Admin delete returns no content", func(t *testing.T) {
		srv := newTestServer(t, caller(models.RoleAdmin))
		id := uuid.New()
		now := time.Now()

		srv.mock.ExpectBegin()
		srv.mock.ExpectQuery(`FROM plan_sales s WHERE s.id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "item_id", "plan_id", "retailer_id", "customer_id",
				"plan_purchase_date", "plan_price", "plan_start_date", "plan_end_date",
				"created_at", "updated_at",
			}).AddRow(id.String(), uuid.New().String(), uuid.New().String(), uuid.New().String(), nil,
				now, "100.00", nil, nil, now, now))
		srv.mock.ExpectExec(`DELETE FROM plan_sales WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		srv.mock.ExpectCommit()

		w := srv.do(http.MethodDelete, "/api/v1/plansales/"+id.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.NoError(t, srv.mock.ExpectationsWereMet())
	})
}

func TestResourceRoutes(t *testing.T) {
	t.Run("Missing principal is unauthorized", func(t *testing.T) {
		srv := newTestServer(t, nil)

		for _, path := range []string{
			"/api/v1/partners", "/api/v1/stores", "/api/v1/userprofiles", "/api/v1/items",
			"/api/v1/plans", "/api/v1/plansales", "/api/v1/partneritems", "/api/v1/partnerplans",
			"/api/v1/managerassignments", "/api/v1/retailerassignments",
		} {
			w := srv.do(http.MethodGet, path, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})

	t.Run("Retailer lists only their own store", func(t *testing.T) {
		retailer := caller(models.RoleRetailer)
		srv := newTestServer(t, retailer)
		now := time.Now()

		srv.mock.ExpectQuery(`FROM stores WHERE id = \$1`).
			WithArgs(retailer.StoreID).
			WillReturnRows(sqlmock.NewRows(storeCols).AddRow(
				retailer.StoreID.String(), uuid.New().String(), "27AAPFU0939F1ZV", "9876543210",
				"store@example.com", "MG Road", true, now, now))

		w := srv.do(http.MethodGet, "/api/v1/stores", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var stores []models.Store
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stores))
		require.Len(t, stores, 1)
		assert.Equal(t, retailer.StoreID, stores[0].ID)
	})

	t.Run("Store in another scope is not found", func(t *testing.T) {
		srv := newTestServer(t, caller(models.RoleManager))

		w := srv.do(http.MethodGet, "/api/v1/stores/"+uuid.New().String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Error)
	})

	t.Run("Patch and put share the update path", func(t *testing.T) {
		srv := newTestServer(t, caller(models.RoleRetailer))

		for _, method := range []string{http.MethodPut, http.MethodPatch} {
			w := srv.do(method, "/api/v1/items/"+uuid.New().String(), gin.H{"type": "Phone"})
			assert.Equal(t, http.StatusForbidden, w.Code, method)
		}
	})

	t.Run("Database failures are hidden behind a 500", func(t *testing.T) {
		srv := newTestServer(t, caller(models.RoleAdmin))
		srv.mock.ExpectQuery(`FROM items i ORDER BY i.created_at`).WillReturnError(errors.New("connection reset"))

		w := srv.do(http.MethodGet, "/api/v1/items", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "INTERNAL_ERROR", resp.Code)
		assert.NotContains(t, resp.Message, "connection reset")
	})
}

func TestTokenHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	userID, storeID := uuid.New(), uuid.New()

	userRows := func() *sqlmock.Rows {
		now := time.Now()
		return sqlmock.NewRows(principalCols).AddRow(
			userID.String(), "retailer.one", "retailer@example.com", string(hash), "Asha", "", "9876543210", "",
			storeID.String(), "retailer", nil, true, now, now)
	}

	t.Run("Login returns a token pair", func(t *testing.T) {
		srv := newTestServer(t, nil)
		srv.mock.ExpectQuery(`FROM user_profiles WHERE username = \$1`).
			WithArgs("retailer.one").
			WillReturnRows(userRows())

		w := srv.do(http.MethodPost, "/api/v1/token", gin.H{"username": "retailer.one", "password": "correct-horse"})

		require.Equal(t, http.StatusOK, w.Code)
		var resp models.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, models.RoleRetailer, resp.Role)

		claims, err := srv.jwt.ValidateAccessToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, storeID, claims.StoreID)
	})

	t.Run("Custom auth rejects a wrong password", func(t *testing.T) {
		srv := newTestServer(t, nil)
		srv.mock.ExpectQuery(`FROM user_profiles WHERE username`).WillReturnRows(userRows())

		w := srv.do(http.MethodPost, "/api/v1/custom-auth", gin.H{"username": "retailer.one", "password": "nope"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, services.MsgInvalidCredentials, decodeError(t, w).Message)
	})

	t.Run("Login attempts are rate limited", func(t *testing.T) {
		srv := newTestServer(t, nil)
		body := gin.H{"username": "", "password": ""}

		assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodPost, "/api/v1/token", body).Code)
		assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodPost, "/api/v1/custom-auth", body).Code)
		assert.Equal(t, http.StatusTooManyRequests, srv.do(http.MethodPost, "/api/v1/token", body).Code)
	})

	t.Run("Refresh issues an access token", func(t *testing.T) {
		srv := newTestServer(t, nil)
		refresh, err := srv.jwt.GenerateRefreshToken(userID, "retailer.one")
		require.NoError(t, err)
		srv.mock.ExpectQuery(`FROM user_profiles WHERE id = \$1`).
			WithArgs(userID).
			WillReturnRows(userRows())

		w := srv.do(http.MethodPost, "/api/v1/token/refresh", gin.H{"refresh": refresh})

		require.Equal(t, http.StatusOK, w.Code)
		var resp models.RefreshTokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
	})
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"Not found", apperrors.NotFound("plan"), http.StatusNotFound, "NOT_FOUND"},
		{"Forbidden", apperrors.Forbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{"Bad request", apperrors.BadRequest("bad"), http.StatusBadRequest, "BAD_REQUEST"},
		{"Unauthorized", apperrors.Unauthorized("who"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"Validation", apperrors.Invalid("role", "unknown"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, logger, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	router := gin.New()
	router.GET("/health", NewHealthHandler(database.Wrap(sqlx.NewDb(sqlDB, "sqlmock")), logger).Health)

	mock.ExpectPing()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
