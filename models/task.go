package models

import "time"

type TaskType string

const (
	TaskTypeSocial TaskType = "social"
	TaskTypeCustom TaskType = "custom"
)

// Task 管理员配置的任务，对用户只读
type Task struct {
	ID                   int64     `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	Title                string    `gorm:"column:title;size:255;not null" json:"title"`
	Slug                 string    `gorm:"column:slug;size:255;index" json:"slug"`
	Description          string    `gorm:"column:description;type:text" json:"description"`
	Type                 TaskType  `gorm:"column:type;size:16;not null;default:'custom'" json:"type"`
	Platform             *string   `gorm:"column:platform;size:64" json:"platform"`
	ActionURL            *string   `gorm:"column:action_url;size:512" json:"action_url"`
	Reward               int64     `gorm:"column:reward;not null" json:"reward"`
	IsActive             bool      `gorm:"column:is_active;not null" json:"is_active"`
	RequiresVerification bool      `gorm:"column:requires_verification;not null;default:false" json:"requires_verification"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskCompletion 存在即代表 (user, task) 的奖励已经发放
type TaskCompletion struct {
	ID          int64     `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	UserID      string    `gorm:"column:user_id;size:64;not null;uniqueIndex:uk_completion_user_task" json:"user_id"`
	TaskID      int64     `gorm:"column:task_id;not null;uniqueIndex:uk_completion_user_task" json:"task_id,string"`
	CompletedAt time.Time `gorm:"column:completed_at" json:"completed_at"`
}

func (TaskCompletion) TableName() string {
	return "task_completions"
}

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// TaskSubmission 需要人工审核任务的提交凭证，每个 (user, task) 只有一条
type TaskSubmission struct {
	ID             int64            `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	UserID         string           `gorm:"column:user_id;size:64;not null;uniqueIndex:uk_submission_user_task" json:"user_id"`
	TaskID         int64            `gorm:"column:task_id;not null;uniqueIndex:uk_submission_user_task" json:"task_id,string"`
	SubmissionLink string           `gorm:"column:submission_link;size:1024;not null" json:"submission_link"`
	Status         SubmissionStatus `gorm:"column:status;size:16;not null;index" json:"status"`
	CreatedAt      time.Time        `gorm:"column:created_at" json:"created_at"`
	ReviewedAt     *time.Time       `gorm:"column:reviewed_at" json:"reviewed_at"`
}

func (TaskSubmission) TableName() string {
	return "task_submissions"
}
