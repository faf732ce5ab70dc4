package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Vine/dao"
	"Vine/models"
	"Vine/pkg/locker"
	"Vine/pkg/log"
	"Vine/pkg/snowflake"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Clock 当前时间，测试中替换为可推进的时钟
type Clock func() time.Time

func NewClock() Clock {
	return func() time.Time { return time.Now().UTC() }
}

const maxLedgerAttempts = 3

var errStaleSnapshot = errors.New("stale account snapshot")

// MutateFunc 在事务内基于账户快照计算新状态，返回需要追加的流水
// 所有数据库操作必须使用传入的 tx
type MutateFunc func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error)

type ILedgerService interface {
	GetAccount(ctx context.Context, userID string) (*models.Profile, error)
	// Mutate 账户变动与流水在同一事务内提交，同一用户串行
	Mutate(ctx context.Context, userID string, fn MutateFunc) (*models.Profile, *models.Transaction, error)
	// MutateActive 同 Mutate，账户被封禁时拒绝
	MutateActive(ctx context.Context, userID string, fn MutateFunc) (*models.Profile, *models.Transaction, error)
	WithAccountLock(ctx context.Context, userID string, fn func() error) error
}

type LedgerService struct {
	DB         *gorm.DB
	Locker     locker.Locker
	ProfileDAO *dao.Profile
	TxDAO      *dao.Transaction
	Clock      Clock
}

var _ ILedgerService = (*LedgerService)(nil)

func (l *LedgerService) GetAccount(ctx context.Context, userID string) (*models.Profile, error) {
	acc, err := l.ProfileDAO.FindByUserID(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account %s: %w", userID, err)
	}
	return acc, nil
}

func (l *LedgerService) WithAccountLock(ctx context.Context, userID string, fn func() error) error {
	unlock, err := l.Locker.Lock(ctx, "account:"+userID)
	if err != nil {
		return fmt.Errorf("lock account %s: %w", userID, err)
	}
	defer unlock()
	return fn()
}

func (l *LedgerService) Mutate(ctx context.Context, userID string, fn MutateFunc) (*models.Profile, *models.Transaction, error) {
	return l.mutate(ctx, userID, fn)
}

func (l *LedgerService) MutateActive(ctx context.Context, userID string, fn MutateFunc) (*models.Profile, *models.Transaction, error) {
	return l.mutate(ctx, userID, func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error) {
		if acc.IsSuspended {
			return nil, ErrAccountSuspended
		}
		return fn(tx, acc)
	})
}

func (l *LedgerService) mutate(ctx context.Context, userID string, fn MutateFunc) (*models.Profile, *models.Transaction, error) {
	var (
		account *models.Profile
		entry   *models.Transaction
	)
	err := l.WithAccountLock(ctx, userID, func() error {
		var err error
		for attempt := 1; attempt <= maxLedgerAttempts; attempt++ {
			account, entry, err = l.apply(ctx, userID, fn)
			if !errors.Is(err, errStaleSnapshot) {
				return err
			}
			ledgerConflicts.Inc()
			log.L.Warn("ledger snapshot conflict, retrying", zap.String("user_id", userID), zap.Int("attempt", attempt))
		}
		return ErrLedgerConflict
	})
	if err != nil {
		return nil, nil, err
	}
	if entry != nil {
		ledgerMutations.WithLabelValues(string(entry.Type)).Inc()
		ledgerAmount.WithLabelValues(string(entry.Type)).Add(float64(entry.Amount))
		log.L.Info("ledger mutated",
			zap.String("user_id", userID),
			zap.String("type", string(entry.Type)),
			zap.Int64("amount", entry.Amount),
			zap.Int64("balance", entry.Balance),
		)
	}
	return account, entry, nil
}

func (l *LedgerService) apply(ctx context.Context, userID string, fn MutateFunc) (*models.Profile, *models.Transaction, error) {
	var (
		account *models.Profile
		entry   *models.Transaction
	)
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acc, err := l.ProfileDAO.Tx(tx).ForUpdate(ctx, userID)
		if err != nil {
			if dao.IsNotFound(err) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("load account %s: %w", userID, err)
		}
		before := *acc

		entry, err = fn(tx, acc)
		if err != nil {
			return err
		}
		if err := checkInvariants(&before, acc, entry); err != nil {
			return err
		}

		now := l.Clock()
		rows, err := l.ProfileDAO.Tx(tx).CompareAndSwap(ctx, acc, before.Version, now)
		if err != nil {
			return fmt.Errorf("update account %s: %w", userID, err)
		}
		if rows == 0 {
			return errStaleSnapshot
		}
		acc.Version = before.Version + 1
		acc.UpdatedAt = now

		if entry != nil {
			entry.ID = snowflake.GenID()
			entry.UserID = userID
			entry.Balance = acc.Balance
			entry.CreatedAt = now
			if err := l.TxDAO.Tx(tx).Create(ctx, entry); err != nil {
				return fmt.Errorf("append transaction: %w", err)
			}
		}
		account = acc
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return account, entry, nil
}

// checkInvariants 余额非负，累计获得与任务数只增不减，流水金额等于余额变化
func checkInvariants(before, after *models.Profile, entry *models.Transaction) error {
	if after.Balance < 0 {
		return ErrInsufficientBalance
	}
	if after.TotalEarned < before.TotalEarned {
		return fmt.Errorf("%w: total earned decreased", ErrLedgerInvariant)
	}
	if after.TasksCompleted < before.TasksCompleted {
		return fmt.Errorf("%w: tasks completed decreased", ErrLedgerInvariant)
	}
	delta := after.Balance - before.Balance
	if entry == nil {
		if delta != 0 {
			return fmt.Errorf("%w: balance changed without transaction", ErrLedgerInvariant)
		}
		return nil
	}
	if entry.Amount != delta {
		return fmt.Errorf("%w: transaction amount %d does not match balance delta %d", ErrLedgerInvariant, entry.Amount, delta)
	}
	return nil
}
