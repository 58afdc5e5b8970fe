// Package server assembles the HTTP surface: services, handlers and routes.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"finwise/internal/config"
	_ "finwise/internal/docs" // swagger spec
	"finwise/internal/handlers"
	"finwise/internal/middleware"
	"finwise/internal/services"
)

// Services bundles the business services the router exposes. Callers that
// need the same instances outside HTTP (the CLI, tests) build them with
// NewServices.
type Services struct {
	User         services.UserServicer
	Category     services.CategoryServicer
	Transaction  services.TransactionServicer
	Budget       services.BudgetServicer
	SavingsGoal  services.SavingsGoalServicer
	Reminder     services.ReminderServicer
	Notification services.NotificationServicer
	Audit        services.AuditServicer
}

// NewServices wires every service against db. Transaction, budget and
// savings goal writes share the notification engine so triggers run in their
// transactions.
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	notificationService := services.NewNotificationService(db, cfg.BudgetAlertThresholds, cfg.ReminderLeadDays)
	return &Services{
		User:         services.NewUserService(db),
		Category:     services.NewCategoryService(db),
		Transaction:  services.NewTransactionService(db, notificationService),
		Budget:       services.NewBudgetService(db, notificationService),
		SavingsGoal:  services.NewSavingsGoalService(db, notificationService),
		Reminder:     services.NewReminderService(db),
		Notification: notificationService,
		Audit:        services.NewAuditService(db),
	}
}

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(svc *Services, cfg *config.Config) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.User, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Category, svc.Audit)
	transactionHandler := handlers.NewTransactionHandler(svc.Transaction, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budget, svc.Audit)
	goalHandler := handlers.NewSavingsGoalHandler(svc.SavingsGoal, svc.Audit)
	reminderHandler := handlers.NewReminderHandler(svc.Reminder, svc.Audit)
	notificationHandler := handlers.NewNotificationHandler(svc.Notification)
	pipelineHandler := handlers.NewPipelineHandler(svc.Notification)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())
	router.NoRoute(middleware.NotFound())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/summary", transactionHandler.GetMonthlySummary)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/status", budgetHandler.GetBudgetStatus)

	goals := protected.Group("/savings-goals")
	goals.POST("", goalHandler.CreateSavingsGoal)
	goals.GET("", goalHandler.GetSavingsGoals)
	goals.GET("/:id", goalHandler.GetSavingsGoal)
	goals.PUT("/:id", goalHandler.UpdateSavingsGoal)
	goals.DELETE("/:id", goalHandler.DeleteSavingsGoal)
	goals.POST("/:id/add-funds", goalHandler.AddFunds)

	reminders := protected.Group("/reminders")
	reminders.POST("", reminderHandler.CreateReminder)
	reminders.GET("", reminderHandler.GetReminders)
	reminders.GET("/:id", reminderHandler.GetReminder)
	reminders.PUT("/:id", reminderHandler.UpdateReminder)
	reminders.DELETE("/:id", reminderHandler.DeleteReminder)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.POST("/read-all", notificationHandler.MarkAllAsRead)
	notifications.GET("/:id", notificationHandler.GetNotification)
	notifications.POST("/:id/read", notificationHandler.MarkAsRead)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/reminders/process", pipelineHandler.ProcessReminders)
	pipeline.POST("/notifications", pipelineHandler.CreateSystemNotification)

	return router
}

// New wraps handler in an http.Server listening on the configured port.
func New(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
