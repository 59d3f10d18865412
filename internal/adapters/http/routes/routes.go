package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/http/handlers"
	"github.com/ntubimd/camping-backend/internal/adapters/http/middleware"
	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/config"
	"github.com/ntubimd/camping-backend/internal/core/domain"
	"github.com/ntubimd/camping-backend/internal/core/services"
)

// Setup configures all routes for the application and returns the scheduler
// so main can stop it on shutdown.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.SchedulerService {
	// Initialize repositories
	txManager := repositories.NewTransactionManager(db)
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	groupRepo := repositories.NewProductGroupRepository(db)
	recordRepo := repositories.NewRentalRecordRepository(db)
	detailRepo := repositories.NewRentalDetailRepository(db)
	changeLogRepo := repositories.NewChangeLogRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	compensationRepo := repositories.NewCompensationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	catalogService := services.NewCatalogService(groupRepo)

	notifyService := services.NewNotificationService(notificationRepo, cfg.Rental.NotifyWebhookURL)

	rounding := domain.RoundDown
	if cfg.Rental.PriceRounding == "up" {
		rounding = domain.RoundUp
	}

	eligibility := services.NewEligibilityService(userRepo, compensationRepo)
	policies := services.NewStatusPolicyRegistry(groupRepo, compensationRepo, nil)

	rentalService := services.NewRentalService(
		txManager,
		recordRepo,
		detailRepo,
		changeLogRepo,
		groupRepo,
		userRepo,
		eligibility,
		policies,
		notifyService,
		rounding,
	)

	commentService := services.NewCommentService(commentRepo, recordRepo, rentalService)

	scheduler := services.NewSchedulerService(
		recordRepo,
		rentalService,
		notifyService,
		time.Duration(cfg.Rental.PendingTTLHours)*time.Hour,
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	rentalHandler := handlers.NewRentalHandler(rentalService, detailRepo)
	commentHandler := handlers.NewCommentHandler(commentService)
	notificationHandler := handlers.NewNotificationHandler(notifyService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Catalog routes (public reads, cached)
	catalogRoutes := apiV1.Group("/groups")
	catalogRoutes.Use(middleware.CatalogCache())
	setupCatalogRoutes(catalogRoutes, catalogHandler)

	// Rental routes (authenticated)
	rentalRoutes := apiV1.Group("/rentals")
	rentalRoutes.Use(middleware.AuthMiddleware(cfg))
	setupRentalRoutes(rentalRoutes, rentalHandler, commentHandler)

	// Notification routes (authenticated)
	notificationRoutes := apiV1.Group("/notifications")
	notificationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupNotificationRoutes(notificationRoutes, notificationHandler)

	// User management routes (authenticated; admin for writes)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, userHandler, commentHandler)

	// Profile routes (authenticated)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	return scheduler
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupCatalogRoutes configures public catalog routes
func setupCatalogRoutes(router fiber.Router, handler *handlers.CatalogHandler) {
	router.Get("/", handler.ListGroups)
	router.Get("/:id", handler.GetGroup)
}

// setupRentalRoutes configures rental lifecycle routes
func setupRentalRoutes(router fiber.Router, handler *handlers.RentalHandler, commentHandler *handlers.CommentHandler) {
	router.Post("/", handler.Create)
	router.Get("/my", handler.GetMyRentals)
	router.Get("/owned", handler.GetOwnedRentals)
	router.Get("/:id", handler.GetByID)
	router.Patch("/:id/status", handler.ChangeStatus)
	router.Get("/:id/logs/:status", handler.GetChangeLog)
	router.Post("/:id/comments", commentHandler.Submit)

	// Admin search across all records
	router.Get("/", middleware.AdminOnly(), handler.Search)
}

// setupNotificationRoutes configures notification routes
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Get("/", handler.List)
	router.Put("/:id/read", handler.MarkRead)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, commentHandler *handlers.CommentHandler) {
	router.Get("/", middleware.AdminOnly(), handler.ListUsers)
	router.Get("/:account", handler.GetUser)
	router.Get("/:account/comments", commentHandler.ListByUser)
	router.Put("/:account/lock", middleware.AdminOnly(), handler.SetLock)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}
