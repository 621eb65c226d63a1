package migration

import (
	"github.com/salespool/leadrotor/internal/config"
	"github.com/salespool/leadrotor/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		if cfg.DefaultCompanyID != 0 {
			if err := seed.EnsureBasketConfigs(conn, cfg.DefaultCompanyID); err != nil {
				return err
			}
		}
		if cfg.SeedDevData && cfg.DefaultCompanyID != 0 {
			return seed.EnsureDevAgents(conn, cfg.DefaultCompanyID)
		}
		return nil
	}),
)
