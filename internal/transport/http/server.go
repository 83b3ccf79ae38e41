package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "airdrop-tracker/internal/app"
	"airdrop-tracker/internal/bootstrap"
	"airdrop-tracker/internal/cache"
	"airdrop-tracker/internal/pkg/jwtutil"
	"airdrop-tracker/internal/pkg/passhash"
	"airdrop-tracker/internal/platform/rabbitmq"
	"airdrop-tracker/internal/repository"
	"airdrop-tracker/internal/transport/http/handler"
	"airdrop-tracker/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	tokenIssuer, err := jwtutil.NewIssuer(
		app.Config.Auth.JWTSecret,
		app.Config.Auth.JWTAlgorithm,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	if err != nil {
		return nil, err
	}

	hasher := passhash.New(passhash.Params{
		Time:     uint32(app.Config.Auth.HashTime),
		MemoryKB: uint32(app.Config.Auth.HashMemoryKB),
		Threads:  uint8(app.Config.Auth.HashThreads),
	})

	userRepo := repository.NewUserRepository(app.MySQL)
	projectRepo := repository.NewProjectRepository(app.MySQL)
	auditRepo := repository.NewAuditEventRepository(app.MySQL)
	userCache := cache.NewUserCache(app.Redis, time.Duration(app.Config.Redis.UserTTLSeconds)*time.Second)
	eventPublisher := rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.AuditEventQueue)

	authService := appsvc.NewAuthService(userRepo, hasher, tokenIssuer, userCache, eventPublisher)
	adminService := appsvc.NewAdminService(userRepo, auditRepo, userCache, eventPublisher)
	projectService := appsvc.NewProjectService(projectRepo)

	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	projectHandler := handler.NewProjectHandler(projectService)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.Authenticate(authService), authHandler.Me)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.Authenticate(authService), middleware.RequireAdmin())
	adminGroup.GET("/users", adminHandler.ListUsers)
	adminGroup.GET("/pending-users", adminHandler.ListPendingUsers)
	adminGroup.POST("/approve-user", adminHandler.ApproveUser)
	adminGroup.DELETE("/reject-user/:id", adminHandler.RejectUser)
	adminGroup.DELETE("/delete-user/:id", adminHandler.DeleteUser)
	adminGroup.GET("/audit/:id", adminHandler.UserAuditTrail)

	projectGroup := api.Group("/projects")
	projectGroup.Use(middleware.Authenticate(authService))
	projectGroup.GET("", projectHandler.List)
	projectGroup.POST("", projectHandler.Create)
	projectGroup.POST("/update-daily", projectHandler.UpdateDaily)
	projectGroup.DELETE("/:name", projectHandler.Delete)

	return router, nil
}
