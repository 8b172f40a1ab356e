package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"goclean/adapters/postgres"
	"goclean/app"
	"goclean/internal/api"
	"goclean/internal/config"
	"goclean/internal/errors"
	"goclean/internal/migration"
	"goclean/internal/pipeline"
	"goclean/ports"
)

// initDatabase connects to the configured database and brings the schema up
// to date
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	db, err := postgres.Connect(ctx, appConfig.Database)
	if err != nil {
		return nil, err
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	var runs ports.CleaningRunRepository
	if appConfig.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := initDatabase(ctx, appConfig)
		cancel()
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		runs = postgres.NewCleaningRunRepository(db)
		log.Printf("Run history enabled (%s)", appConfig.Database.Driver)
	} else {
		log.Println("DATABASE_URL not set, run history disabled")
	}

	service := app.NewCleaningService(
		pipeline.NewPipeline(pipeline.DefaultConfig()),
		runs,
		app.CleaningServiceConfig{
			MaxConcurrent: appConfig.Runs.MaxConcurrent,
			Timeout:       appConfig.Runs.Timeout,
		},
	)

	server := api.NewServer(service, api.ServerConfig{
		MaxUploadBytes: appConfig.Server.MaxUploadBytes,
		Defaults:       appConfig.Cleaning.Defaults,
	})

	log.Printf("Starting goclean server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
