package dao

import (
	"context"
	"time"

	"Vine/models"

	"gorm.io/gorm"
)

type Referral struct {
	Repo[models.Referral]
}

func NewReferral(db *gorm.DB) *Referral {
	return &Referral{
		Repo: NewRepo[models.Referral](db),
	}
}

func (r *Referral) Tx(tx *gorm.DB) *Referral {
	return &Referral{Repo: r.Repo.WithDB(tx)}
}

func (r *Referral) FindByReferred(ctx context.Context, referredID string) (*models.Referral, error) {
	return r.FindByWhere(ctx, "referred_id = ?", referredID)
}

// SyncTasksCompleted 同步被推荐人的任务数，并在达到阈值时 pending -> eligible
// 返回晋级的行数，已经 eligible 的记录不会再次命中
func (r *Referral) SyncTasksCompleted(ctx context.Context, referredID string, tasks int64, threshold int64, now time.Time) (int64, error) {
	err := r.Model(ctx).
		Where("referred_id = ?", referredID).
		Updates(map[string]any{"tasks_completed": tasks, "updated_at": now}).Error
	if err != nil {
		return 0, err
	}
	res := r.Model(ctx).
		Where("referred_id = ? AND status = ? AND tasks_completed >= ?", referredID, models.ReferralPending, threshold).
		Updates(map[string]any{"status": models.ReferralEligible, "updated_at": now})
	return res.RowsAffected, res.Error
}

// PromoteAllEligible 阈值调低后补齐晋级
func (r *Referral) PromoteAllEligible(ctx context.Context, threshold int64, now time.Time) (int64, error) {
	res := r.Model(ctx).
		Where("status = ? AND tasks_completed >= ?", models.ReferralPending, threshold).
		Updates(map[string]any{"status": models.ReferralEligible, "updated_at": now})
	return res.RowsAffected, res.Error
}

// Approve eligible -> approved 并标记奖励已发
func (r *Referral) Approve(ctx context.Context, id int64, now time.Time) (int64, error) {
	res := r.Model(ctx).
		Where("id = ? AND status = ?", id, models.ReferralEligible).
		Updates(map[string]any{
			"status":     models.ReferralApproved,
			"bonus_paid": true,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

// Reject pending / eligible -> rejected
func (r *Referral) Reject(ctx context.Context, id int64, now time.Time) (int64, error) {
	res := r.Model(ctx).
		Where("id = ? AND status IN ?", id, []models.ReferralStatus{models.ReferralPending, models.ReferralEligible}).
		Updates(map[string]any{"status": models.ReferralRejected, "updated_at": now})
	return res.RowsAffected, res.Error
}

func (r *Referral) ListByStatus(ctx context.Context, status models.ReferralStatus) ([]models.Referral, error) {
	return r.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db.Order("created_at DESC")
	})
}

func (r *Referral) ListByReferrer(ctx context.Context, referrerID string) ([]models.Referral, error) {
	return r.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("referrer_id = ?", referrerID).Order("created_at DESC")
	})
}

func (r *Referral) EligibleIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.Model(ctx).Where("status = ?", models.ReferralEligible).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *Referral) CountByStatus(ctx context.Context, status models.ReferralStatus) (int64, error) {
	return r.FindCount(ctx, "status = ?", status)
}
