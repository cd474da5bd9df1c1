package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"clubledger/internal/config"
	"clubledger/internal/database"
	"clubledger/internal/handlers"
	"clubledger/internal/logger"
	"clubledger/internal/middleware"
	"clubledger/internal/models"
	"clubledger/internal/services"
	"clubledger/internal/validator"

	_ "clubledger/internal/docs" // Import swagger docs
)

// @title           clubledger API
// @version         1.0
// @description     Club finance administration backend: donations, expenses, budgets, and members.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Redis backs the access-token blacklist used for logout.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     appConfig.RedisAddr,
		Password: appConfig.RedisPassword,
		DB:       appConfig.RedisDB,
	})
	blacklist := middleware.NewTokenBlacklist(redisClient)

	validator.Register()

	// Services
	db := dbManager.DB()
	reconciler := services.NewBudgetReconciler(db)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db, reconciler)
	donationService := services.NewDonationService(db)
	adminService := services.NewAdminService(db)
	memberService := services.NewMemberService(db)
	authService := services.NewAuthService(db, blacklist)
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

	// Nightly ledger consistency sweep
	sweeper := services.NewLedgerSweeper(db)
	cronRunner := cron.New()
	if err := sweeper.Register(cronRunner, appConfig.SweepSchedule); err != nil {
		return fmt.Errorf("failed to schedule ledger sweep: %w", err)
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes
	loginLimiter := middleware.NewRateLimiter()
	auth := api.Group("/auth")
	auth.POST("/login", loginLimiter.Middleware(), authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	api.POST("/members/signup", memberHandler.Signup)

	// Authenticated routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(blacklist))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/activities/recent", dashboardHandler.GetRecentActivities)

	superadmin := middleware.RequireRoles(models.RoleSuperadmin)
	privileged := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperadmin)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/categories", budgetHandler.GetCategories)
	budgets.POST("", superadmin, budgetHandler.CreateBudget)
	budgets.PUT("/:id", superadmin, budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", superadmin, budgetHandler.DeleteBudget)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/categories", expenseHandler.GetExpenseCategories)
	expenses.POST("", privileged, expenseHandler.CreateExpense)
	expenses.PUT("/:id", privileged, expenseHandler.UpdateExpense)
	expenses.PUT("/:id/approve", superadmin, expenseHandler.ApproveExpense)
	expenses.PUT("/:id/reject", superadmin, expenseHandler.RejectExpense)
	expenses.DELETE("/:id", superadmin, expenseHandler.DeleteExpense)

	// Donation routes
	donations := protected.Group("/donations")
	donations.GET("", donationHandler.GetDonations)
	donations.POST("", privileged, donationHandler.CreateDonation)
	donations.PUT("/:id", privileged, donationHandler.UpdateDonation)
	donations.PUT("/:id/approve", superadmin, donationHandler.ApproveDonation)
	donations.PUT("/:id/reject", superadmin, donationHandler.RejectDonation)
	donations.DELETE("/:id", superadmin, donationHandler.DeleteDonation)

	// Admin and member routes
	admins := protected.Group("/admins")
	admins.GET("", adminHandler.GetAdmins)
	admins.GET("/members", adminHandler.GetMembers)
	admins.POST("", superadmin, adminHandler.CreateAdmin)
	admins.PUT("/:id", superadmin, adminHandler.UpdateAdmin)
	admins.DELETE("/:id", superadmin, adminHandler.DeleteAdmin)
	admins.DELETE("/members/:id", superadmin, adminHandler.DeleteMember)

	// Dashboard and reports
	protected.GET("/dashboard/stats", dashboardHandler.GetStats)
	protected.GET("/reports/summary", dashboardHandler.GetSummary)
	protected.GET("/reports/transactions/recent", dashboardHandler.GetRecentTransactions)

	// Planning sheet and exports
	sheets := protected.Group("/sheet-items")
	sheets.GET("", sheetHandler.GetItems)
	sheets.POST("", privileged, sheetHandler.SaveItems)
	sheets.DELETE("", superadmin, sheetHandler.ClearItems)
	sheets.POST("/import", privileged, sheetHandler.ImportItems)

	protected.GET("/exports/:type", sheetHandler.Export)

	log.Infof("Starting clubledger backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
