package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repo 通用单表操作，具体 DAO 通过嵌入复用
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// WithDB 切换到事务连接
func (r Repo[T]) WithDB(db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

func (r Repo[T]) Model(ctx context.Context) *gorm.DB {
	return r.Db.WithContext(ctx).Model(new(T))
}

func (r Repo[T]) Create(ctx context.Context, data *T) error {
	return r.Db.WithContext(ctx).Create(data).Error
}

func (r Repo[T]) FindById(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r Repo[T]) FindByWhere(ctx context.Context, where string, args ...any) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).Where(where, args...).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r Repo[T]) FindAll(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	items := make([]T, 0)
	err := r.Db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Find(&items).Error
	return items, err
}

func (r Repo[T]) FindCount(ctx context.Context, where string, args ...any) (int64, error) {
	var count int64
	err := r.Model(ctx).Where(where, args...).Count(&count).Error
	return count, err
}

func (r Repo[T]) IsExist(ctx context.Context, where string, args ...any) (bool, error) {
	var count int64
	err := r.Model(ctx).Where(where, args...).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r Repo[T]) UpdateById(ctx context.Context, id int64, data map[string]any) (int64, error) {
	res := r.Model(ctx).Where("id = ?", id).Updates(data)
	return res.RowsAffected, res.Error
}

func (r Repo[T]) DeleteById(ctx context.Context, id int64) (int64, error) {
	res := r.Db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	return res.RowsAffected, res.Error
}

// Paginate offset 分页
func Paginate(page, size int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 {
			page = 1
		}
		if size <= 0 || size > 100 {
			size = 20
		}
		return db.Offset((page - 1) * size).Limit(size)
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
