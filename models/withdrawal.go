package models

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// Withdrawal 提现申请，创建时余额已经扣除
type Withdrawal struct {
	ID            int64            `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	UserID        string           `gorm:"column:user_id;size:64;not null;index" json:"user_id"`
	Amount        int64            `gorm:"column:amount;not null" json:"amount"`
	WalletAddress string           `gorm:"column:wallet_address;size:128;not null" json:"wallet_address"`
	Status        WithdrawalStatus `gorm:"column:status;size:16;not null;index" json:"status"`
	AdminNotes    *string          `gorm:"column:admin_notes;size:1024" json:"admin_notes"`
	ProcessedAt   *time.Time       `gorm:"column:processed_at" json:"processed_at"`
	CreatedAt     time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
