package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"Vine/dao"
	"Vine/models"
	"Vine/pkg/log"
	"Vine/pkg/snowflake"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	checkInInterval = 24 * time.Hour
	streakWindow    = 48 * time.Hour
)

type CheckInResult struct {
	Streak  int   `json:"streak"`
	Reward  int64 `json:"reward"`
	Balance int64 `json:"balance"`
}

type AdWatchResult struct {
	Reward  int64 `json:"reward"`
	Balance int64 `json:"balance"`
}

type TaskResult struct {
	Reward  int64 `json:"reward"`
	Balance int64 `json:"balance"`
}

type IRewardService interface {
	CheckIn(ctx context.Context, userID string) (*CheckInResult, error)
	WatchAd(ctx context.Context, userID string, adType models.AdType, completed bool) (*AdWatchResult, error)
	// CompleteTask 用户直接完成无需审核的任务
	CompleteTask(ctx context.Context, userID string, taskID int64) (*TaskResult, error)
}

type RewardService struct {
	Ledger            ILedgerService
	Settings          ISettingsProvider
	TaskDAO           *dao.Task
	TaskCompletionDAO *dao.TaskCompletion
	ReferralDAO       *dao.Referral
	AdViewDAO         *dao.AdView
	Events            IEventBus
	Clock             Clock
}

var _ IRewardService = (*RewardService)(nil)

func (r *RewardService) CheckIn(ctx context.Context, userID string) (*CheckInResult, error) {
	settings, err := r.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.CheckInEnabled {
		return nil, reject("check_in", fmt.Errorf("%w: check-in", ErrFeatureDisabled))
	}

	var streak int
	acc, _, err := r.Ledger.MutateActive(ctx, userID, func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error) {
		now := r.Clock()
		if acc.LastCheckIn != nil {
			elapsed := now.Sub(*acc.LastCheckIn)
			if elapsed < checkInInterval {
				next := acc.LastCheckIn.Add(checkInInterval)
				return nil, fmt.Errorf("%w, next check-in at %s", ErrTooSoon, next.Format(time.RFC3339))
			}
		}
		streak = nextStreak(acc.LastCheckIn, acc.CurrentStreak, now)

		acc.Balance += settings.DailyCheckInReward
		acc.TotalEarned += settings.DailyCheckInReward
		acc.CurrentStreak = streak
		acc.LastCheckIn = &now
		return &models.Transaction{
			Type:        models.TxCheckIn,
			Amount:      settings.DailyCheckInReward,
			Description: fmt.Sprintf("Daily check-in reward (Day %d streak)", streak),
		}, nil
	})
	if err != nil {
		return nil, reject("check_in", err)
	}
	return &CheckInResult{Streak: streak, Reward: settings.DailyCheckInReward, Balance: acc.Balance}, nil
}

// nextStreak 距上次签到不足 48 小时连续，否则从 1 重新开始
func nextStreak(last *time.Time, current int, now time.Time) int {
	if last == nil {
		return 1
	}
	if now.Sub(*last) < streakWindow {
		return current + 1
	}
	return 1
}

// WatchAd completed 由客户端上报，服务端不做广告平台校验
func (r *RewardService) WatchAd(ctx context.Context, userID string, adType models.AdType, completed bool) (*AdWatchResult, error) {
	if !completed {
		return nil, reject("ad_watch", ErrIncompleteAd)
	}
	if !adType.Valid() {
		return nil, fmt.Errorf("%w: ad type %q", ErrInvalidArgument, adType)
	}
	settings, err := r.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.AdsEnabled {
		return nil, reject("ad_watch", fmt.Errorf("%w: ads", ErrFeatureDisabled))
	}

	acc, _, err := r.Ledger.MutateActive(ctx, userID, func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error) {
		now := r.Clock()
		if acc.LastAdWatch != nil {
			next := acc.LastAdWatch.Add(settings.AdCooldown())
			if now.Before(next) {
				return nil, fmt.Errorf("%w, next ad at %s", ErrCooldownActive, next.Format(time.RFC3339))
			}
		}
		view := &models.AdView{
			ID:        snowflake.GenID(),
			UserID:    acc.UserID,
			AdType:    adType,
			Completed: true,
			Rewarded:  true,
			CreatedAt: now,
		}
		if err := r.AdViewDAO.Tx(tx).Create(ctx, view); err != nil {
			return nil, fmt.Errorf("record ad view: %w", err)
		}

		acc.Balance += settings.AdWatchReward
		acc.TotalEarned += settings.AdWatchReward
		acc.LastAdWatch = &now
		return &models.Transaction{
			Type:        models.TxAdWatch,
			Amount:      settings.AdWatchReward,
			Description: fmt.Sprintf("Watched %s ad", adType),
		}, nil
	})
	if err != nil {
		return nil, reject("ad_watch", err)
	}
	return &AdWatchResult{Reward: settings.AdWatchReward, Balance: acc.Balance}, nil
}

func (r *RewardService) CompleteTask(ctx context.Context, userID string, taskID int64) (*TaskResult, error) {
	task, err := r.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsActive {
		return nil, ErrTaskInactive
	}
	if task.RequiresVerification {
		return nil, ErrVerificationRequired
	}
	settings, err := r.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	var promoted int64
	acc, _, err := r.Ledger.MutateActive(ctx, userID, func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error) {
		entry, n, err := r.completeTaskTx(ctx, tx, acc, task, settings)
		promoted = n
		return entry, err
	})
	if err != nil {
		return nil, reject("task", err)
	}
	r.afterTaskCompleted(ctx, userID, promoted)
	return &TaskResult{Reward: task.Reward, Balance: acc.Balance}, nil
}

func (r *RewardService) findTask(ctx context.Context, taskID int64) (*models.Task, error) {
	task, err := r.TaskDAO.FindById(ctx, taskID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task %d: %w", taskID, err)
	}
	return task, nil
}

// completeTaskTx 发放任务奖励并同步推荐进度，调用方负责事务与账户锁
// 返回本次由 pending 晋级为 eligible 的推荐数
func (r *RewardService) completeTaskTx(ctx context.Context, tx *gorm.DB, acc *models.Profile, task *models.Task, settings Settings) (*models.Transaction, int64, error) {
	completions := r.TaskCompletionDAO.Tx(tx)
	exists, err := completions.Exists(ctx, acc.UserID, task.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("check task completion: %w", err)
	}
	if exists {
		return nil, 0, ErrAlreadyCompleted
	}
	now := r.Clock()
	err = completions.Create(ctx, &models.TaskCompletion{
		ID:          snowflake.GenID(),
		UserID:      acc.UserID,
		TaskID:      task.ID,
		CompletedAt: now,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, 0, ErrAlreadyCompleted
		}
		return nil, 0, fmt.Errorf("insert task completion: %w", err)
	}

	acc.Balance += task.Reward
	acc.TotalEarned += task.Reward
	acc.TasksCompleted++

	promoted, err := r.ReferralDAO.Tx(tx).SyncTasksCompleted(ctx, acc.UserID, acc.TasksCompleted, settings.TasksForReferralEligibility, now)
	if err != nil {
		return nil, 0, fmt.Errorf("sync referral progress: %w", err)
	}

	ref := strconv.FormatInt(task.ID, 10)
	return &models.Transaction{
		Type:        models.TxTask,
		Amount:      task.Reward,
		Description: "Task completed",
		ReferenceID: &ref,
	}, promoted, nil
}

func (r *RewardService) afterTaskCompleted(ctx context.Context, userID string, promoted int64) {
	if promoted == 0 {
		return
	}
	log.L.Info("referral became eligible", zap.String("referred_id", userID))
	r.Events.Publish(ctx, Event{
		Name:       EventReferralEligible,
		UserID:     userID,
		RefID:      userID,
		Status:     string(models.ReferralEligible),
		OccurredAt: r.Clock(),
	})
}

// creditReferralBonus 推荐奖励记在推荐人名下
func creditReferralBonus(acc *models.Profile, referralID int64, bonus int64) *models.Transaction {
	acc.Balance += bonus
	acc.TotalEarned += bonus
	ref := strconv.FormatInt(referralID, 10)
	return &models.Transaction{
		Type:        models.TxReferral,
		Amount:      bonus,
		Description: "Referral bonus approved",
		ReferenceID: &ref,
	}
}

// reject 前置条件失败计数，其余错误原样返回
func reject(operation string, err error) error {
	if err == nil {
		return nil
	}
	if isPrecondition(err) {
		ruleRejections.WithLabelValues(operation).Inc()
		log.L.Debug("reward rejected", zap.String("operation", operation), zap.Error(err))
	}
	return err
}

func isPrecondition(err error) bool {
	for _, target := range []error{
		ErrTooSoon, ErrCooldownActive, ErrIncompleteAd, ErrFeatureDisabled, ErrAccountSuspended,
		ErrAlreadyCompleted, ErrAlreadySubmitted, ErrAlreadyProcessed, ErrBelowMinimum,
		ErrNoWallet, ErrInsufficientBalance,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
