package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/config"
	"github.com/eventcast/eventcast-backend/internal/migration"
	pkglogger "github.com/eventcast/eventcast-backend/pkg/logger"
)

// Standalone migration runner for deploy pipelines that migrate
// before rolling the API.
func main() {
	config.LoadDotEnv()
	pkglogger.InitStructured(os.Getenv("APP_ENV"))

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	cfg, err := config.Load(fmt.Sprintf("configs/config.%s.yaml", env))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	pkglogger.GetLogger().Info().Msg("migration complete")
}
