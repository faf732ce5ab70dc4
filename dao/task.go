package dao

import (
	"context"
	"time"

	"Vine/models"

	"gorm.io/gorm"
)

type Task struct {
	Repo[models.Task]
}

func NewTask(db *gorm.DB) *Task {
	return &Task{
		Repo: NewRepo[models.Task](db),
	}
}

func (t *Task) Tx(tx *gorm.DB) *Task {
	return &Task{Repo: t.Repo.WithDB(tx)}
}

func (t *Task) ListActive(ctx context.Context) ([]models.Task, error) {
	return t.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("created_at DESC")
	})
}

func (t *Task) ListAll(ctx context.Context) ([]models.Task, error) {
	return t.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	})
}

type TaskCompletion struct {
	Repo[models.TaskCompletion]
}

func NewTaskCompletion(db *gorm.DB) *TaskCompletion {
	return &TaskCompletion{
		Repo: NewRepo[models.TaskCompletion](db),
	}
}

func (t *TaskCompletion) Tx(tx *gorm.DB) *TaskCompletion {
	return &TaskCompletion{Repo: t.Repo.WithDB(tx)}
}

func (t *TaskCompletion) Exists(ctx context.Context, userID string, taskID int64) (bool, error) {
	return t.IsExist(ctx, "user_id = ? AND task_id = ?", userID, taskID)
}

func (t *TaskCompletion) TaskIDsByUser(ctx context.Context, userID string) ([]int64, error) {
	ids := make([]int64, 0)
	err := t.Model(ctx).Where("user_id = ?", userID).Pluck("task_id", &ids).Error
	return ids, err
}

type TaskSubmission struct {
	Repo[models.TaskSubmission]
}

func NewTaskSubmission(db *gorm.DB) *TaskSubmission {
	return &TaskSubmission{
		Repo: NewRepo[models.TaskSubmission](db),
	}
}

func (t *TaskSubmission) Tx(tx *gorm.DB) *TaskSubmission {
	return &TaskSubmission{Repo: t.Repo.WithDB(tx)}
}

func (t *TaskSubmission) FindByUserTask(ctx context.Context, userID string, taskID int64) (*models.TaskSubmission, error) {
	return t.FindByWhere(ctx, "user_id = ? AND task_id = ?", userID, taskID)
}

// Resubmit 仅允许 rejected 的记录重新进入 pending
func (t *TaskSubmission) Resubmit(ctx context.Context, id int64, link string, now time.Time) (int64, error) {
	res := t.Model(ctx).
		Where("id = ? AND status = ?", id, models.SubmissionRejected).
		Updates(map[string]any{
			"submission_link": link,
			"status":          models.SubmissionPending,
			"created_at":      now,
			"reviewed_at":     nil,
		})
	return res.RowsAffected, res.Error
}

// Review pending -> approved / rejected，返回 0 说明已被处理
func (t *TaskSubmission) Review(ctx context.Context, id int64, to models.SubmissionStatus, now time.Time) (int64, error) {
	res := t.Model(ctx).
		Where("id = ? AND status = ?", id, models.SubmissionPending).
		Updates(map[string]any{
			"status":      to,
			"reviewed_at": now,
		})
	return res.RowsAffected, res.Error
}

func (t *TaskSubmission) ListByStatus(ctx context.Context, status models.SubmissionStatus) ([]models.TaskSubmission, error) {
	return t.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db.Order("created_at DESC")
	})
}

func (t *TaskSubmission) ListByUser(ctx context.Context, userID string) ([]models.TaskSubmission, error) {
	return t.FindAll(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

func (t *TaskSubmission) CountByStatus(ctx context.Context, status models.SubmissionStatus) (int64, error) {
	return t.FindCount(ctx, "status = ?", status)
}
