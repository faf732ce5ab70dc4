package types

import "time"

type BootstrapReq struct {
	Email         string `json:"email"`
	Username      string `json:"username"`
	EmailVerified bool   `json:"email_verified"`
	ReferralCode  string `json:"referral_code"`
}

type UpdateProfileReq struct {
	Username      *string `json:"username" binding:"omitempty,min=2,max=64"`
	WalletAddress *string `json:"wallet_address" binding:"omitempty,max=128"`
}

// AccountDashboard 余额概览
type AccountDashboard struct {
	UserID         string     `json:"user_id"`
	Username       string     `json:"username"`
	Balance        int64      `json:"balance"`
	TotalEarned    int64      `json:"total_earned"`
	TasksCompleted int64      `json:"tasks_completed"`
	CurrentStreak  int        `json:"current_streak"`
	ReferralCode   string     `json:"referral_code"`
	WalletAddress  *string    `json:"wallet_address"`
	IsSuspended    bool       `json:"is_suspended"`
	LastCheckIn    *time.Time `json:"last_check_in"`
	LastAdWatch    *time.Time `json:"last_ad_watch"`
	NextCheckIn    *time.Time `json:"next_check_in"` // 为空表示现在即可签到
	NextAdWatch    *time.Time `json:"next_ad_watch"`
}

type ListTransactionsReq struct {
	Action string `form:"action" binding:"omitempty,oneof=all income expense"`
	Cursor int64  `form:"cursor"`
	Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

type TransactionRecord struct {
	ID          int64     `json:"id,string"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Balance     int64     `json:"balance"`
	Description string    `json:"description"`
	ReferenceID *string   `json:"reference_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListTransactions 游标分页
type ListTransactions struct {
	Records    []TransactionRecord `json:"records"`
	NextCursor int64               `json:"next_cursor,string"`
	HasMore    bool                `json:"has_more"`
}

type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	Username       string `json:"username"`
	TotalEarned    int64  `json:"total_earned"`
	TasksCompleted int64  `json:"tasks_completed"`
}
