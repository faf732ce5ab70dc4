package dao

import (
	"context"

	"Vine/models"

	"gorm.io/gorm"
)

type AdminAction struct {
	Repo[models.AdminAction]
}

func NewAdminAction(db *gorm.DB) *AdminAction {
	return &AdminAction{
		Repo: NewRepo[models.AdminAction](db),
	}
}

func (a *AdminAction) Tx(tx *gorm.DB) *AdminAction {
	return &AdminAction{Repo: a.Repo.WithDB(tx)}
}

func (a *AdminAction) ListRecent(ctx context.Context, limit int) ([]models.AdminAction, error) {
	return a.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Limit(limit)
	})
}
