package types

import "time"

type AdWatchReq struct {
	AdType    string `json:"ad_type" binding:"required,oneof=interstitial rewarded"`
	Completed bool   `json:"completed"`
}

type SubmitTaskReq struct {
	SubmissionLink string `json:"submission_link" binding:"required,url,max=1024"`
}

// TaskView 任务列表，附带当前用户的完成与提交状态
type TaskView struct {
	ID                   int64   `json:"id,string"`
	Title                string  `json:"title"`
	Slug                 string  `json:"slug"`
	Description          string  `json:"description"`
	Type                 string  `json:"type"`
	Platform             *string `json:"platform"`
	ActionURL            *string `json:"action_url"`
	Reward               int64   `json:"reward"`
	RequiresVerification bool    `json:"requires_verification"`
	Completed            bool    `json:"completed"`
	SubmissionStatus     string  `json:"submission_status,omitempty"`
}

type WithdrawalReq struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	WalletAddress string `json:"wallet_address" binding:"omitempty,max=128"`
}

type WithdrawalView struct {
	ID            int64      `json:"id,string"`
	UserID        string     `json:"user_id"`
	Amount        int64      `json:"amount"`
	WalletAddress string     `json:"wallet_address"`
	Status        string     `json:"status"`
	AdminNotes    *string    `json:"admin_notes"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ReferralView struct {
	ID             int64     `json:"id,string"`
	ReferredName   string    `json:"referred_name"`
	Status         string    `json:"status"`
	TasksCompleted int64     `json:"tasks_completed"`
	TasksRequired  int64     `json:"tasks_required"`
	BonusPaid      bool      `json:"bonus_paid"`
	CreatedAt      time.Time `json:"created_at"`
}
