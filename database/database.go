package database

import (
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type Database struct {
	db                    *gorm.DB
	projectRepo           *ProjectRepo
	technologyRepo        *TechnologyRepo
	certificateRepo       *CertificateRepo
	projectTechnologyRepo *ProjectTechnologyRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                    db,
		projectRepo:           NewProjectRepo(db),
		technologyRepo:        NewTechnologyRepo(db),
		certificateRepo:       NewCertificateRepo(db),
		projectTechnologyRepo: NewProjectTechnologyRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) DB() *gorm.DB {
	return d.db
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TechnologyRepo() *TechnologyRepo {
	return d.technologyRepo
}

func (d Database) CertificateRepo() *CertificateRepo {
	return d.certificateRepo
}

func (d Database) ProjectTechnologyRepo() *ProjectTechnologyRepo {
	return d.projectTechnologyRepo
}

// DSN builds the Supabase connection string from cfg.
func DSN(cfg map[string]string) (string, error) {
	host := config.GetString(cfg, "SUPABASE_DB_HOST", "")
	if host == "" {
		return "", errs.NewConfigError("database", errs.NewEnvironmentVariableError("SUPABASE_DB_HOST"))
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host,
		config.GetString(cfg, "SUPABASE_DB_USER", "postgres"),
		config.GetString(cfg, "SUPABASE_DB_PASSWORD", ""),
		config.GetString(cfg, "SUPABASE_DB_NAME", "postgres"),
		config.GetString(cfg, "SUPABASE_DB_PORT", "5432"),
		config.GetString(cfg, "SUPABASE_DB_SSLMODE", "require"),
	), nil
}

// Open connects to Postgres, registers the optional read replica and sets up
// the project/technology join table.
func Open(cfg map[string]string) (*gorm.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if replica := config.GetString(cfg, "DB_REPLICA_DSN", ""); replica != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  replica,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("registering read replica: %w", err)
		}
		log.Info().Msg("read replica registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing database connection: %w", err)
	}

	if err := db.SetupJoinTable(&models.Project{}, "Technologies", &models.ProjectTechnology{}); err != nil {
		return nil, fmt.Errorf("setting up projects_technologies join table: %w", err)
	}

	return db, nil
}
