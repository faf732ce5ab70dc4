package models

import (
	"time"

	"gorm.io/datatypes"
)

// AdminAction 管理后台操作审计
type AdminAction struct {
	ID        int64             `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	AdminID   string            `gorm:"column:admin_id;size:64;not null;index" json:"admin_id"`
	Action    string            `gorm:"column:action;size:64;not null" json:"action"`
	TargetID  string            `gorm:"column:target_id;size:64;index" json:"target_id"`
	Detail    datatypes.JSONMap `gorm:"column:detail" json:"detail"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (AdminAction) TableName() string {
	return "admin_actions"
}

// All 所有需要迁移的表
func All() []any {
	return []any{
		&Profile{},
		&Transaction{},
		&Task{},
		&TaskCompletion{},
		&TaskSubmission{},
		&Referral{},
		&Withdrawal{},
		&Setting{},
		&AdView{},
		&Devotional{},
		&Announcement{},
		&AdminAction{},
	}
}
