package dao

import (
	"context"
	"time"

	"Vine/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Setting struct {
	Repo[models.Setting]
}

func NewSetting(db *gorm.DB) *Setting {
	return &Setting{
		Repo: NewRepo[models.Setting](db),
	}
}

func (s *Setting) All(ctx context.Context) (map[string]string, error) {
	list, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, item := range list {
		out[item.Key] = item.Value
	}
	return out, nil
}

func (s *Setting) Upsert(ctx context.Context, key, value string, now time.Time) error {
	return s.Db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.Setting{Key: key, Value: value, UpdatedAt: now}).Error
}

// SeedMissing 只写入不存在的 key，不覆盖管理员修改过的值
func (s *Setting) SeedMissing(ctx context.Context, values map[string]string, now time.Time) error {
	rows := make([]models.Setting, 0, len(values))
	for k, v := range values {
		rows = append(rows, models.Setting{Key: k, Value: v, UpdatedAt: now})
	}
	if len(rows) == 0 {
		return nil
	}
	return s.Db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
