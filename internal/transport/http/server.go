package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "todoapi/internal/app"
	"todoapi/internal/bootstrap"
	"todoapi/internal/cache"
	"todoapi/internal/platform/rabbitmq"
	"todoapi/internal/repository"
	"todoapi/internal/transport/http/handler"
	"todoapi/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	todoRepo := repository.NewTodoRepository(app.MySQL)
	activityRepo := repository.NewActivityRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Config.Auth.BcryptCost,
	)
	todoService := appsvc.NewTodoService(
		todoRepo,
		activityRepo,
		rabbitmq.NewActivityPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue),
		cache.NewStatsCache(app.Redis, time.Duration(app.Config.Redis.StatsTTLSeconds)*time.Second),
	)

	production := app.Config.IsProduction()
	authHandler := handler.NewAuthHandler(authService, production)
	todoHandler := handler.NewTodoHandler(todoService, production)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret, authService)

	api := router.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authRequired, authHandler.Me)

	todoGroup := api.Group("/todos")
	todoGroup.Use(authRequired)
	todoGroup.GET("", todoHandler.List)
	todoGroup.POST("", todoHandler.Create)
	todoGroup.GET("/stats", todoHandler.Stats)
	todoGroup.GET("/activity", todoHandler.Activity)
	todoGroup.GET("/:id", todoHandler.Get)
	todoGroup.PUT("/:id", todoHandler.Update)
	todoGroup.DELETE("/:id", todoHandler.Delete)
	todoGroup.PATCH("/:id/toggle", todoHandler.Toggle)

	return router
}
