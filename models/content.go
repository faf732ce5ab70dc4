package models

import "time"

type Devotional struct {
	ID            int64     `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	Title         string    `gorm:"column:title;size:255;not null" json:"title"`
	Slug          string    `gorm:"column:slug;size:255;index" json:"slug"`
	Scripture     string    `gorm:"column:scripture;size:255;not null" json:"scripture"`
	Content       string    `gorm:"column:content;type:text;not null" json:"content"`
	ScheduledDate string    `gorm:"column:scheduled_date;size:10;not null;index" json:"scheduled_date"` // 2006-01-02
	IsActive      bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Devotional) TableName() string {
	return "devotionals"
}

type Announcement struct {
	ID        int64     `gorm:"primaryKey;column:id;autoIncrement:false" json:"id,string"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	IsActive  bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}
