package main

import (
	"context"
	"fmt"

	"Vine/models"
	"Vine/pkg/log"
	"Vine/service"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Migrator struct {
	DB       *gorm.DB
	Settings service.ISettingsService
}

func (m *Migrator) Run(ctx context.Context) error {
	if err := m.DB.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := m.Settings.Seed(ctx); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	log.L.Info("migrate done", zap.Int("tables", len(models.All())))
	return nil
}
