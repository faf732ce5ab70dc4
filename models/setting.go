package models

import "time"

// Setting 平台参数，value 统一存字符串
type Setting struct {
	Key       string    `gorm:"primaryKey;column:key;size:64" json:"key"`
	Value     string    `gorm:"column:value;size:255;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
