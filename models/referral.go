package models

import "time"

type ReferralStatus string

const (
	ReferralPending  ReferralStatus = "pending"
	ReferralEligible ReferralStatus = "eligible"
	ReferralApproved ReferralStatus = "approved"
	ReferralRejected ReferralStatus = "rejected"
)

// Terminal approved / rejected 之后不再流转
func (s ReferralStatus) Terminal() bool {
	return s == ReferralApproved || s == ReferralRejected
}

type Referral struct {
	ID             int64          `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	ReferrerID     string         `gorm:"column:referrer_id;size:64;not null;index" json:"referrer_id"`
	ReferredID     string         `gorm:"column:referred_id;size:64;not null;uniqueIndex" json:"referred_id"`
	Status         ReferralStatus `gorm:"column:status;size:16;not null;index" json:"status"`
	TasksCompleted int64          `gorm:"column:tasks_completed;not null;default:0" json:"tasks_completed"` // 被推荐人已完成任务数的镜像
	BonusPaid      bool           `gorm:"column:bonus_paid;not null;default:false" json:"bonus_paid"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
