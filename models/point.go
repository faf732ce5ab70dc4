package models

import "time"

// Profile 用户积分账户（VINE），由外部认证系统的 user_id 标识
type Profile struct {
	ID             int64      `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	UserID         string     `gorm:"column:user_id;size:64;uniqueIndex" json:"user_id"`
	Username       string     `gorm:"column:username;size:64;index" json:"username"`
	Email          string     `gorm:"column:email;size:255;index" json:"email"`
	Balance        int64      `gorm:"column:balance;not null;default:0" json:"balance"`           // 当前可用余额，永不为负
	TotalEarned    int64      `gorm:"column:total_earned;not null;default:0" json:"total_earned"` // 历史累计获得，只增不减
	TasksCompleted int64      `gorm:"column:tasks_completed;not null;default:0" json:"tasks_completed"`
	CurrentStreak  int        `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LastCheckIn    *time.Time `gorm:"column:last_check_in" json:"last_check_in"`
	LastAdWatch    *time.Time `gorm:"column:last_ad_watch" json:"last_ad_watch"`
	ReferralCode   string     `gorm:"column:referral_code;size:32;uniqueIndex" json:"referral_code"`
	ReferredBy     *string    `gorm:"column:referred_by;size:32" json:"referred_by"`
	WalletAddress  *string    `gorm:"column:wallet_address;size:128" json:"wallet_address"`
	IsSuspended    bool       `gorm:"column:is_suspended;not null;default:false" json:"is_suspended"`
	EmailVerified  bool       `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
	// Version 乐观锁版本号，每次账户变动 +1
	Version   int64     `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// HasWallet 是否已绑定提现地址
func (p *Profile) HasWallet() bool {
	return p.WalletAddress != nil && *p.WalletAddress != ""
}

type TransactionType string

// 积分变动类型
const (
	TxCheckIn         TransactionType = "check_in"
	TxAdWatch         TransactionType = "ad_watch"
	TxTask            TransactionType = "task"
	TxReferral        TransactionType = "referral"
	TxWithdrawal      TransactionType = "withdrawal"
	TxAdminAdjustment TransactionType = "admin_adjustment"
)

// Transaction 积分流水，只追加，不修改不删除
type Transaction struct {
	ID          int64           `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	UserID      string          `gorm:"column:user_id;size:64;index:idx_tx_user_id" json:"user_id"`
	Type        TransactionType `gorm:"column:type;size:32;not null" json:"type"`
	Amount      int64           `gorm:"column:amount;not null" json:"amount"`   // 变动数额（正负）
	Balance     int64           `gorm:"column:balance;not null" json:"balance"` // 变动后余额
	Description string          `gorm:"column:description;size:255" json:"description"`
	ReferenceID *string         `gorm:"column:reference_id;size:64;index" json:"reference_id"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
