package types

import "time"

type ProfileBrief struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ReferralWithProfiles 推荐记录及双方资料
type ReferralWithProfiles struct {
	ID             int64         `json:"id,string"`
	Status         string        `json:"status"`
	TasksCompleted int64         `json:"tasks_completed"`
	BonusPaid      bool          `json:"bonus_paid"`
	CreatedAt      time.Time     `json:"created_at"`
	Referrer       *ProfileBrief `json:"referrer"`
	Referred       *ProfileBrief `json:"referred"`
}

// SubmissionWithProfile 任务提交及提交人、任务信息
type SubmissionWithProfile struct {
	ID             int64         `json:"id,string"`
	TaskID         int64         `json:"task_id,string"`
	TaskTitle      string        `json:"task_title"`
	TaskReward     int64         `json:"task_reward"`
	SubmissionLink string        `json:"submission_link"`
	Status         string        `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	ReviewedAt     *time.Time    `json:"reviewed_at"`
	Profile        *ProfileBrief `json:"profile"`
}

type AdminStats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalRewardsIssued int64 `json:"total_rewards_issued"`
	PendingWithdrawals int64 `json:"pending_withdrawals"`
	EligibleReferrals  int64 `json:"eligible_referrals"`
	PendingSubmissions int64 `json:"pending_submissions"`
}

type ListUsersReq struct {
	Keyword string `form:"keyword"`
	Page    int    `form:"page,default=1" binding:"omitempty,min=1"`
	Size    int    `form:"size,default=20" binding:"omitempty,min=1,max=100"`
}

type ListUsersResp struct {
	Users []AdminUser `json:"users"`
	Total int64       `json:"total"`
}

type AdminUser struct {
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Balance        int64     `json:"balance"`
	TotalEarned    int64     `json:"total_earned"`
	TasksCompleted int64     `json:"tasks_completed"`
	IsSuspended    bool      `json:"is_suspended"`
	EmailVerified  bool      `json:"email_verified"`
	CreatedAt      time.Time `json:"created_at"`
}

type StatusQuery struct {
	Status string `form:"status"`
}

type DecisionReq struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Notes    string `json:"notes" binding:"max=1024"`
}

type AdjustBalanceReq struct {
	Amount int64  `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required,max=255"`
}

type SuspendReq struct {
	Suspended bool `json:"suspended"`
}

type UpdateSettingReq struct {
	Value string `json:"value" binding:"required"`
}

type TaskReq struct {
	Title                string  `json:"title" binding:"required,max=255"`
	Description          string  `json:"description"`
	Type                 string  `json:"type" binding:"omitempty,oneof=social custom"`
	Platform             *string `json:"platform"`
	ActionURL            *string `json:"action_url" binding:"omitempty,url"`
	Reward               int64   `json:"reward" binding:"required,gt=0"`
	IsActive             *bool   `json:"is_active"`
	RequiresVerification bool    `json:"requires_verification"`
}

type DevotionalReq struct {
	Title         string `json:"title" binding:"required,max=255"`
	Scripture     string `json:"scripture" binding:"required,max=255"`
	Content       string `json:"content" binding:"required"`
	ScheduledDate string `json:"scheduled_date" binding:"required,datetime=2006-01-02"`
	IsActive      *bool  `json:"is_active"`
}

type AnnouncementReq struct {
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
	IsActive *bool  `json:"is_active"`
}
