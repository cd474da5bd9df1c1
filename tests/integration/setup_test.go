package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"clubledger/internal/handlers"
	"clubledger/internal/logger"
	"clubledger/internal/middleware"
	"clubledger/internal/models"
	"clubledger/internal/services"
	"clubledger/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:flowdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Budget{},
		&models.Expense{},
		&models.Donation{},
		&models.Admin{},
		&models.Member{},
		&models.Activity{},
		&models.SheetItem{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite. No redis is wired, so token revocation is not exercised here.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	reconciler := services.NewBudgetReconciler(db)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db, reconciler)
	donationService := services.NewDonationService(db)
	adminService := services.NewAdminService(db)
	memberService := services.NewMemberService(db)
	authService := services.NewAuthService(db, nil)
	activityService := services.NewActivityService(db)
	dashboardService := services.NewDashboardService(db)
	sheetService := services.NewSheetService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, activityService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, activityService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, activityService)
	donationHandler := handlers.NewDonationHandler(donationService, activityService)
	adminHandler := handlers.NewAdminHandler(adminService, memberService, activityService)
	memberHandler := handlers.NewMemberHandler(memberService, activityService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, activityService)
	sheetHandler := handlers.NewSheetHandler(sheetService, activityService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	api.POST("/members/signup", memberHandler.Signup)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(nil))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/activities/recent", dashboardHandler.GetRecentActivities)

	superadmin := middleware.RequireRoles(models.RoleSuperadmin)
	privileged := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperadmin)

	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/categories", budgetHandler.GetCategories)
	budgets.POST("", superadmin, budgetHandler.CreateBudget)
	budgets.PUT("/:id", superadmin, budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", superadmin, budgetHandler.DeleteBudget)

	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/categories", expenseHandler.GetExpenseCategories)
	expenses.POST("", privileged, expenseHandler.CreateExpense)
	expenses.PUT("/:id", privileged, expenseHandler.UpdateExpense)
	expenses.PUT("/:id/approve", superadmin, expenseHandler.ApproveExpense)
	expenses.PUT("/:id/reject", superadmin, expenseHandler.RejectExpense)
	expenses.DELETE("/:id", superadmin, expenseHandler.DeleteExpense)

	donations := protected.Group("/donations")
	donations.GET("", donationHandler.GetDonations)
	donations.POST("", privileged, donationHandler.CreateDonation)
	donations.PUT("/:id", privileged, donationHandler.UpdateDonation)
	donations.PUT("/:id/approve", superadmin, donationHandler.ApproveDonation)
	donations.PUT("/:id/reject", superadmin, donationHandler.RejectDonation)
	donations.DELETE("/:id", superadmin, donationHandler.DeleteDonation)

	admins := protected.Group("/admins")
	admins.GET("", adminHandler.GetAdmins)
	admins.GET("/members", adminHandler.GetMembers)
	admins.POST("", superadmin, adminHandler.CreateAdmin)
	admins.PUT("/:id", superadmin, adminHandler.UpdateAdmin)
	admins.DELETE("/:id", superadmin, adminHandler.DeleteAdmin)
	admins.DELETE("/members/:id", superadmin, adminHandler.DeleteMember)

	protected.GET("/dashboard/stats", dashboardHandler.GetStats)
	protected.GET("/reports/summary", dashboardHandler.GetSummary)
	protected.GET("/reports/transactions/recent", dashboardHandler.GetRecentTransactions)

	sheets := protected.Group("/sheet-items")
	sheets.GET("", sheetHandler.GetItems)
	sheets.POST("", privileged, sheetHandler.SaveItems)
	sheets.DELETE("", superadmin, sheetHandler.ClearItems)
	sheets.POST("/import", privileged, sheetHandler.ImportItems)

	protected.GET("/exports/:type", sheetHandler.Export)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// jsonDecimal parses a money field from a decoded JSON object. Decimal
// fields serialize as quoted strings.
func jsonDecimal(t *testing.T, obj map[string]interface{}, key string) decimal.Decimal {
	t.Helper()
	raw, ok := obj[key].(string)
	if !ok {
		t.Fatalf("expected %q to be a decimal string, got %T (%v)", key, obj[key], obj[key])
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("field %q is not a decimal: %v", key, err)
	}
	return value
}

// assertJSONDecimal compares a decimal field against an expected value.
func assertJSONDecimal(t *testing.T, obj map[string]interface{}, key, want string) {
	t.Helper()
	got := jsonDecimal(t, obj, key)
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s %s, got %s", key, want, got)
	}
}

// errorCode extracts the error code from an error envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	envelope, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no error envelope: %s", rec.Body.String())
	}
	return envelope["code"].(string)
}

// seedAccount creates an admin-table row with the given role directly in
// the database, simulating an account provisioned by a superadmin.
func (app *testApp) seedAccount(t *testing.T, idCardNo, mobile string, role models.Role) {
	t.Helper()
	account := models.Admin{
		IDCardNo:  idCardNo,
		Name:      "Test " + string(role),
		Mobile:    mobile,
		Role:      role,
		AddedDate: time.Now(),
		Status:    models.AccountStatusActive,
	}
	if err := app.DB.Create(&account).Error; err != nil {
		t.Fatalf("failed to seed %s account: %v", role, err)
	}
}

// login authenticates via the API and returns the access token.
func (app *testApp) login(t *testing.T, idCardNo, mobile string) string {
	t.Helper()
	body := fmt.Sprintf(`{"id_card_no":%q,"mobile":%q}`, idCardNo, mobile)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	tokens := result["tokens"].(map[string]interface{})
	return tokens["access_token"].(string)
}

// loginSuperadmin seeds a superadmin and returns its access token.
func (app *testApp) loginSuperadmin(t *testing.T) string {
	t.Helper()
	app.seedAccount(t, "SA0001", "9000000001", models.RoleSuperadmin)
	return app.login(t, "SA0001", "9000000001")
}

// loginAdmin seeds a regular admin and returns its access token.
func (app *testApp) loginAdmin(t *testing.T) string {
	t.Helper()
	app.seedAccount(t, "AD0001", "9000000002", models.RoleAdmin)
	return app.login(t, "AD0001", "9000000002")
}

// createBudget creates a budget category via the API and returns its ID.
func (app *testApp) createBudget(t *testing.T, token, category, allocated string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":"%s Budget","category":%q,"allocated":%q,"date":%q}`,
		category, category, allocated, time.Now().Format(time.RFC3339))
	rec := app.request("POST", "/api/budgets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	return budget["id"].(float64)
}

// getBudgetByCategory reads a budget row directly from the database.
func (app *testApp) getBudgetByCategory(t *testing.T, category string) *models.Budget {
	t.Helper()
	var budget models.Budget
	if err := app.DB.Where("category = ?", category).First(&budget).Error; err != nil {
		t.Fatalf("failed to load budget %q: %v", category, err)
	}
	return &budget
}
