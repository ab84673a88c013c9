package main

import (
	"log"

	"anoa.com/schoolhub/internal/bootstrap"
	"anoa.com/schoolhub/internal/config"
	"anoa.com/schoolhub/internal/server"
	"anoa.com/schoolhub/pkg/database"
)

func main() {
	cfg := config.Load()

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedSuperAdmin(db); err != nil {
			log.Fatalf("failed to seed super admin: %v", err)
		}
	}

	srv := server.New(db, cfg)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
