package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/nexscholar/backend/internal/mailer"
	"github.com/nexscholar/backend/internal/router"
	"github.com/nexscholar/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Mail transport
	sender := mailer.NewSMTPSender(cfg)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	dispatcher := router.SetupRoutes(e, db.Postgres, db.Mongo, sender, cfg)
	defer dispatcher.Close() // Drain queued mail on shutdown

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
