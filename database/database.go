package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-admin-backend/config"
	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
)

type Database struct {
	db                    *gorm.DB
	projectRepo           *ProjectRepo
	typeRepo              *TypeRepo
	technologyRepo        *TechnologyRepo
	projectTechnologyRepo *ProjectTechnologyRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                    db,
		projectRepo:           NewProjectRepo(db),
		typeRepo:              NewTypeRepo(db),
		technologyRepo:        NewTechnologyRepo(db),
		projectTechnologyRepo: NewProjectTechnologyRepo(db),
	}
}

// Open connects to postgres, registers read replicas when configured and
// routes GORM's logger through zerolog.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormLogger := log.With().Str("component", "gorm").Logger().Level(zerolog.WarnLevel)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger: logger.New(&gormLogger, logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return nil, errs.NewDatabaseError("connect to", "database", err)
	}

	if len(cfg.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaDSNs))
		for _, dsn := range cfg.ReplicaDSNs {
			replicas = append(replicas, postgres.Open(dsn))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, errs.NewDatabaseError("register replicas for", "database", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("Registered read replicas")
	}

	if err := db.SetupJoinTable(&models.Project{}, "Technologies", &models.ProjectTechnology{}); err != nil {
		return nil, errs.NewDatabaseError("set up join table for", "project technologies", err)
	}

	return db, nil
}

// Ping checks the primary connection.
func (d Database) Ping(ctx context.Context) error {
	var result int
	if err := d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TypeRepo() *TypeRepo {
	return d.typeRepo
}

func (d Database) TechnologyRepo() *TechnologyRepo {
	return d.technologyRepo
}

func (d Database) ProjectTechnologyRepo() *ProjectTechnologyRepo {
	return d.projectTechnologyRepo
}
