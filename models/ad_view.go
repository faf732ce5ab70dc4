package models

import "time"

type AdType string

const (
	AdInterstitial AdType = "interstitial"
	AdRewarded     AdType = "rewarded"
)

func (t AdType) Valid() bool {
	return t == AdInterstitial || t == AdRewarded
}

type AdView struct {
	ID        int64     `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	UserID    string    `gorm:"column:user_id;size:64;not null;index" json:"user_id"`
	AdType    AdType    `gorm:"column:ad_type;size:16;not null" json:"ad_type"`
	Completed bool      `gorm:"column:completed;not null" json:"completed"`
	Rewarded  bool      `gorm:"column:rewarded;not null" json:"rewarded"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AdView) TableName() string {
	return "ad_views"
}
