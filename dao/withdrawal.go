package dao

import (
	"context"
	"time"

	"Vine/models"

	"gorm.io/gorm"
)

type Withdrawal struct {
	Repo[models.Withdrawal]
}

func NewWithdrawal(db *gorm.DB) *Withdrawal {
	return &Withdrawal{
		Repo: NewRepo[models.Withdrawal](db),
	}
}

func (w *Withdrawal) Tx(tx *gorm.DB) *Withdrawal {
	return &Withdrawal{Repo: w.Repo.WithDB(tx)}
}

// Process pending -> approved / rejected，返回 0 说明已被处理
func (w *Withdrawal) Process(ctx context.Context, id int64, to models.WithdrawalStatus, notes *string, now time.Time) (int64, error) {
	res := w.Model(ctx).
		Where("id = ? AND status = ?", id, models.WithdrawalPending).
		Updates(map[string]any{
			"status":       to,
			"admin_notes":  notes,
			"processed_at": now,
		})
	return res.RowsAffected, res.Error
}

func (w *Withdrawal) ListByUser(ctx context.Context, userID string) ([]models.Withdrawal, error) {
	return w.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID).Order("created_at DESC")
	})
}

func (w *Withdrawal) ListByStatus(ctx context.Context, status models.WithdrawalStatus) ([]models.Withdrawal, error) {
	return w.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db.Order("created_at DESC")
	})
}

func (w *Withdrawal) CountByStatus(ctx context.Context, status models.WithdrawalStatus) (int64, error) {
	return w.FindCount(ctx, "status = ?", status)
}
