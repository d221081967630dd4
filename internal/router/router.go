package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/nexscholar/backend/internal/handlers"
	"github.com/nexscholar/backend/internal/mailer"
	"github.com/nexscholar/backend/internal/middleware"
	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/notify"
	"github.com/nexscholar/backend/internal/realtime"
	"github.com/nexscholar/backend/internal/repositories"
	"github.com/nexscholar/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, sender mailer.Sender, cfg *config.Config) *notify.Dispatcher {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Task{},
		&models.ConnectionRequest{},
		&models.Notification{},
		&models.NotificationPreference{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	notify.SetBaseURL(cfg.AppBaseURL)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	workspaceRepo := repositories.NewPostgresWorkspaceRepository(pgdb)
	taskRepo := repositories.NewPostgresTaskRepository(pgdb)
	connectionRepo := repositories.NewPostgresConnectionRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	preferenceRepo := repositories.NewPostgresPreferenceRepository(pgdb)

	var deliveryLogRepo repositories.DeliveryLogRepository
	if mgClient != nil {
		deliveryLogRepo = repositories.NewMongoDeliveryLogRepository(mgClient.Database(cfg.MongoDatabase))
	}

	// --- Notification dispatch ---
	hub := realtime.NewHub()
	dispatcher := notify.NewDispatcher(notificationRepo, preferenceRepo, deliveryLogRepo, sender, hub)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	app := e.Group("/api/v1/app")
	app.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1/app group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(app)
	log.Println("User profile routes configured.")

	// Workspace routes
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceRepo, taskRepo, userRepo, dispatcher)
	workspaceHandler.RegisterWorkspaceRoutes(app)
	log.Println("Workspace routes configured.")

	// Task routes
	taskHandler := handlers.NewTaskHandler(taskRepo, workspaceRepo, userRepo, dispatcher)
	taskHandler.RegisterTaskRoutes(app)
	log.Println("Task routes configured.")

	// Connection routes
	connectionHandler := handlers.NewConnectionHandler(connectionRepo, userRepo, dispatcher)
	connectionHandler.RegisterConnectionRoutes(app)
	log.Println("Connection routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(app)
	log.Println("Notification routes configured.")

	// Notification preference routes
	preferenceHandler := handlers.NewPreferenceHandler(preferenceRepo)
	preferenceHandler.RegisterPreferenceRoutes(app)
	log.Println("Notification preference routes configured.")

	// Realtime routes
	realtimeHandler := handlers.NewRealtimeHandler(hub)
	realtimeHandler.RegisterRealtimeRoutes(app)
	log.Println("Realtime routes configured.")

	log.Println("All routes configured.")
	return dispatcher
}
