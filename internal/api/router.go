package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tokomart/account-system/internal/api/handler"
	"github.com/tokomart/account-system/internal/api/middleware"
	"github.com/tokomart/account-system/internal/core/domain"
	"github.com/tokomart/account-system/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Services arrive fully constructed; the router only wires transport.
func NewRouter(
	accountService ports.AccountService,
	authService ports.AuthService,
	db *mongo.Database,
	rdb *redis.Client,
	jwtSecret string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("account"))

	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService, authService)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Account routes (authenticated, known roles only) ---
	v1 := e.Group("/v1/account", authMiddleware, middleware.RBAC(string(domain.RoleSeller), string(domain.RoleCustomer)))
	v1.GET("/me", accountHandler.Me)
	v1.PATCH("/profile", accountHandler.UpdateProfile)
	v1.PUT("/password", accountHandler.ChangePassword)
	v1.POST("/otp", accountHandler.IssueOtp)
	v1.POST("/otp/verify", accountHandler.VerifyOtp)
	v1.DELETE("", accountHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
