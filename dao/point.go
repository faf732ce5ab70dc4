package dao

import (
	"context"
	"time"

	"Vine/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Profile struct {
	Repo[models.Profile]
}

func NewProfile(db *gorm.DB) *Profile {
	return &Profile{
		Repo: NewRepo[models.Profile](db),
	}
}

func (p *Profile) Tx(tx *gorm.DB) *Profile {
	return &Profile{Repo: p.Repo.WithDB(tx)}
}

func (p *Profile) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return p.FindByWhere(ctx, "user_id = ?", userID)
}

func (p *Profile) FindByReferralCode(ctx context.Context, code string) (*models.Profile, error) {
	return p.FindByWhere(ctx, "referral_code = ?", code)
}

// ForUpdate 在事务中读取账户快照，支持行锁的数据库会加 FOR UPDATE
func (p *Profile) ForUpdate(ctx context.Context, userID string) (*models.Profile, error) {
	var account models.Profile
	err := p.Db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// CompareAndSwap 以 version 为条件写回账户快照，返回 0 说明快照已过期
func (p *Profile) CompareAndSwap(ctx context.Context, acc *models.Profile, version int64, now time.Time) (int64, error) {
	res := p.Db.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id = ? AND version = ?", acc.UserID, version).
		Updates(map[string]any{
			"balance":         acc.Balance,
			"total_earned":    acc.TotalEarned,
			"tasks_completed": acc.TasksCompleted,
			"current_streak":  acc.CurrentStreak,
			"last_check_in":   acc.LastCheckIn,
			"last_ad_watch":   acc.LastAdWatch,
			"version":         version + 1,
			"updated_at":      now,
		})
	return res.RowsAffected, res.Error
}

// UpdateAttrs 更新与余额无关的资料字段
func (p *Profile) UpdateAttrs(ctx context.Context, userID string, data map[string]any) (int64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	res := p.Model(ctx).Where("user_id = ?", userID).Updates(data)
	return res.RowsAffected, res.Error
}

func (p *Profile) Search(ctx context.Context, keyword string, page, size int) ([]models.Profile, int64, error) {
	query := p.Model(ctx)
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", like, like)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	list := make([]models.Profile, 0)
	err := query.Order("created_at DESC").Scopes(Paginate(page, size)).Find(&list).Error
	return list, total, err
}

func (p *Profile) Leaderboard(ctx context.Context, limit int) ([]models.Profile, error) {
	list := make([]models.Profile, 0, limit)
	err := p.Model(ctx).
		Where("is_suspended = ?", false).
		Order("total_earned DESC").Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (p *Profile) FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*models.Profile, error) {
	out := make(map[string]*models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var list []models.Profile
	if err := p.Model(ctx).Where("user_id IN ?", userIDs).Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].UserID] = &list[i]
	}
	return out, nil
}

// Totals 用户数与累计发放
func (p *Profile) Totals(ctx context.Context) (users int64, issued int64, err error) {
	var res struct {
		Users  int64
		Issued int64
	}
	err = p.Model(ctx).
		Select("COUNT(*) AS users, COALESCE(SUM(total_earned), 0) AS issued").
		Scan(&res).Error
	return res.Users, res.Issued, err
}

type Transaction struct {
	Repo[models.Transaction]
}

func NewTransaction(db *gorm.DB) *Transaction {
	return &Transaction{
		Repo: NewRepo[models.Transaction](db),
	}
}

func (t *Transaction) Tx(tx *gorm.DB) *Transaction {
	return &Transaction{Repo: t.Repo.WithDB(tx)}
}

// ListRecords 游标分页，cursor 为上一页最后一条 id
func (t *Transaction) ListRecords(ctx context.Context, userID string, action string, cursor int64, limit int) ([]models.Transaction, error) {
	logs := make([]models.Transaction, 0, limit)
	query := t.Db.WithContext(ctx).Where("user_id = ?", userID)

	switch action {
	case "income":
		query = query.Where("amount > ?", 0)
	case "expense":
		query = query.Where("amount < ?", 0)
	}

	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	err := query.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// SumByUser 对账用：流水合计
func (t *Transaction) SumByUser(ctx context.Context, userID string) (credits int64, net int64, err error) {
	var res struct {
		Credits int64
		Net     int64
	}
	err = t.Model(ctx).
		Select("COALESCE(SUM(CASE WHEN amount > 0 AND type <> ? THEN amount ELSE 0 END), 0) AS credits, COALESCE(SUM(amount), 0) AS net", models.TxWithdrawal).
		Where("user_id = ?", userID).
		Scan(&res).Error
	return res.Credits, res.Net, err
}
