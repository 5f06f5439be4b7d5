// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "spendbook/internal/docs" // Import swagger docs
	"spendbook/internal/handlers"
	"spendbook/internal/metrics"
	"spendbook/internal/middleware"
	"spendbook/internal/services"
)

// Services are the business services the router serves.
type Services struct {
	Users  services.UserServicer
	Ledger services.LedgerServicer
	Budget services.BudgetServicer
	Groups services.GroupServicer
	Audit  services.AuditServicer
}

// Options configure the router.
type Options struct {
	// Tokens validates bearer tokens on protected routes.
	Tokens middleware.TokenParser
	// Metrics is exposed on /metrics when set.
	Metrics *metrics.Metrics
	// MetricsAPIKey guards /metrics; empty leaves it open.
	MetricsAPIKey string
	// DisableSwagger skips the /swagger routes.
	DisableSwagger bool
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(svc Services, opts Options) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users)
	userHandler := handlers.NewUserHandler(svc.Users, svc.Ledger, svc.Audit)
	ledgerHandler := handlers.NewLedgerHandler(svc.Ledger, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budget, svc.Audit)
	groupHandler := handlers.NewGroupHandler(svc.Groups, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.RequestMetrics(opts.Metrics))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	if !opts.DisableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.Metrics != nil {
		router.GET("/metrics", middleware.APIKeyAuth(opts.MetricsAPIKey), gin.WrapH(opts.Metrics.Handler()))
	}

	// Identity
	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)
	router.POST("/googleSignup", authHandler.GoogleSignup)
	router.POST("/googleLogin", authHandler.GoogleLogin)
	router.GET("/profile", middleware.AuthMiddleware(opts.Tokens), authHandler.GetProfile)

	// Users and their ledger
	users := router.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.GET("/:userId", userHandler.GetUserExpenses)
	users.DELETE("/:userId", userHandler.DeleteUser)
	users.POST("/:userId/data", ledgerHandler.RecordExpense)
	users.DELETE("/:userId/data/:dataId", ledgerHandler.DeleteExpense)
	users.GET("/:userId/budget", budgetHandler.GetBudget)
	users.POST("/:userId/budget", budgetHandler.UpdateBudget)

	// Groups
	router.POST("/create-group", groupHandler.CreateGroup)
	router.POST("/join-group", groupHandler.JoinGroup)
	router.GET("/groups", groupHandler.ListGroups)
	router.GET("/:groupId/members/data", groupHandler.ListMembersData)
	router.POST("/:groupId/members/:memberId/data", ledgerHandler.RecordMemberExpense)
	router.DELETE("/:groupId/members/:memberId/data/:dataId", ledgerHandler.DeleteMemberExpense)

	return router
}
