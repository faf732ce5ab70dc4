package dao

import (
	"context"

	"Vine/models"

	"gorm.io/gorm"
)

type Devotional struct {
	Repo[models.Devotional]
}

func NewDevotional(db *gorm.DB) *Devotional {
	return &Devotional{
		Repo: NewRepo[models.Devotional](db),
	}
}

func (d *Devotional) FindByDate(ctx context.Context, date string) (*models.Devotional, error) {
	var item models.Devotional
	err := d.Db.WithContext(ctx).
		Where("scheduled_date = ? AND is_active = ?", date, true).
		Order("created_at DESC").
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (d *Devotional) List(ctx context.Context) ([]models.Devotional, error) {
	return d.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("scheduled_date DESC")
	})
}

type Announcement struct {
	Repo[models.Announcement]
}

func NewAnnouncement(db *gorm.DB) *Announcement {
	return &Announcement{
		Repo: NewRepo[models.Announcement](db),
	}
}

func (a *Announcement) ListActive(ctx context.Context) ([]models.Announcement, error) {
	return a.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("created_at DESC")
	})
}

func (a *Announcement) List(ctx context.Context) ([]models.Announcement, error) {
	return a.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	})
}
