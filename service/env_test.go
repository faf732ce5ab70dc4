package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"Vine/config"
	"Vine/dao"
	"Vine/models"
	"Vine/pkg/locker"
	"Vine/pkg/rocketmq"
	"Vine/types"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	db          *gorm.DB
	clock       *fakeClock
	settings    *SettingsService
	ledger      *LedgerService
	reward      *RewardService
	eligibility *EligibilityService
	withdrawal  *WithdrawalService
	account     *AccountService
	admin       *AdminService
	content     *ContentService

	txDAO *dao.Transaction
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}

	cfg, err := config.Parse([]byte("app:\n  referral_salt: vine-test\n"))
	require.NoError(t, err)

	profileDAO := dao.NewProfile(db)
	txDAO := dao.NewTransaction(db)
	taskDAO := dao.NewTask(db)
	completionDAO := dao.NewTaskCompletion(db)
	submissionDAO := dao.NewTaskSubmission(db)
	referralDAO := dao.NewReferral(db)
	withdrawalDAO := dao.NewWithdrawal(db)
	events := &EventBus{Producer: rocketmq.Noop{}}

	settings := NewSettingsService(dao.NewSetting(db), nil, cfg.Reward, clock.Now)
	require.NoError(t, settings.Seed(context.Background()))

	ledger := &LedgerService{
		DB:         db,
		Locker:     locker.NewLocal(),
		ProfileDAO: profileDAO,
		TxDAO:      txDAO,
		Clock:      clock.Now,
	}
	reward := &RewardService{
		Ledger:            ledger,
		Settings:          settings,
		TaskDAO:           taskDAO,
		TaskCompletionDAO: completionDAO,
		ReferralDAO:       referralDAO,
		AdViewDAO:         dao.NewAdView(db),
		Events:            events,
		Clock:             clock.Now,
	}
	eligibility := &EligibilityService{
		DB:                db,
		Ledger:            ledger,
		Settings:          settings,
		Reward:            reward,
		TaskDAO:           taskDAO,
		TaskCompletionDAO: completionDAO,
		SubmissionDAO:     submissionDAO,
		ReferralDAO:       referralDAO,
		Events:            events,
		Clock:             clock.Now,
	}
	withdrawal := &WithdrawalService{
		Ledger:        ledger,
		Settings:      settings,
		WithdrawalDAO: withdrawalDAO,
		Events:        events,
		Clock:         clock.Now,
	}
	return &testEnv{
		db:          db,
		clock:       clock,
		settings:    settings,
		ledger:      ledger,
		reward:      reward,
		eligibility: eligibility,
		withdrawal:  withdrawal,
		account: &AccountService{
			Config:            cfg,
			DB:                db,
			Ledger:            ledger,
			Settings:          settings,
			ProfileDAO:        profileDAO,
			TxDAO:             txDAO,
			TaskDAO:           taskDAO,
			TaskCompletionDAO: completionDAO,
			SubmissionDAO:     submissionDAO,
			ReferralDAO:       referralDAO,
			WithdrawalDAO:     withdrawalDAO,
			Clock:             clock.Now,
		},
		admin: &AdminService{
			Ledger:         ledger,
			Settings:       settings,
			Eligibility:    eligibility,
			Withdrawal:     withdrawal,
			ProfileDAO:     profileDAO,
			TaskDAO:        taskDAO,
			SubmissionDAO:  submissionDAO,
			ReferralDAO:    referralDAO,
			WithdrawalDAO:  withdrawalDAO,
			AdminActionDAO: dao.NewAdminAction(db),
			Clock:          clock.Now,
		},
		content: &ContentService{
			TaskDAO:         taskDAO,
			DevotionalDAO:   dao.NewDevotional(db),
			AnnouncementDAO: dao.NewAnnouncement(db),
			Clock:           clock.Now,
		},
		txDAO: txDAO,
	}
}

func (e *testEnv) newAccount(t *testing.T, userID string, referralCode string) *models.Profile {
	t.Helper()
	p, err := e.account.EnsureAccount(context.Background(), Identity{
		UserID: userID,
		Email:  userID + "@vine.test",
	}, referralCode)
	require.NoError(t, err)
	return p
}

func (e *testEnv) newTask(t *testing.T, title string, reward int64, verify bool) *models.Task {
	t.Helper()
	task, err := e.content.CreateTask(context.Background(), &types.TaskReq{
		Title:                title,
		Reward:               reward,
		RequiresVerification: verify,
	})
	require.NoError(t, err)
	return task
}

func (e *testEnv) profile(t *testing.T, userID string) *models.Profile {
	t.Helper()
	acc, err := e.ledger.GetAccount(context.Background(), userID)
	require.NoError(t, err)
	return acc
}

// credit 直接调账，用于准备余额
func (e *testEnv) credit(t *testing.T, userID string, amount int64) {
	t.Helper()
	_, err := e.admin.AdjustBalance(context.Background(), "admin", userID, amount, "seed balance")
	require.NoError(t, err)
}

// requireReconciled 余额与累计获得都能由流水重新算出
func (e *testEnv) requireReconciled(t *testing.T, userID string) {
	t.Helper()
	acc := e.profile(t, userID)
	credits, net, err := e.txDAO.SumByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, acc.Balance, net, "balance equals the sum of transactions")
	require.Equal(t, acc.TotalEarned, credits, "total earned equals the sum of credits")
	require.GreaterOrEqual(t, acc.Balance, int64(0))
}
