package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-admin-backend/api"
	"github.com/rpupo63/portfolio-admin-backend/config"
	"github.com/rpupo63/portfolio-admin-backend/database"
	"github.com/rpupo63/portfolio-admin-backend/services"
	"github.com/rpupo63/portfolio-admin-backend/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(config.New())
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg)
	log.Info().Msg("Initializing app...")

	ctx := context.Background()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)

	if err := currentDB.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	if cfg.Migrate {
		log.Info().Msg("Migrating schema...")
		if err := database.Migrate(ctx, db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Error migrating schema")
		}
	}

	if cfg.Seed {
		log.Info().Msg("Seeding technologies...")
		if err := database.NewTechnologySeeder(currentDB.TechnologyRepo()).Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error seeding technologies")
		}
	}

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Error initializing storage")
	}

	projectService := services.NewProjectService(
		currentDB.ProjectRepo(),
		currentDB.TypeRepo(),
		currentDB.TechnologyRepo(),
		currentDB.ProjectTechnologyRepo(),
		blobs,
	)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, projectService, currentDB.Ping)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
