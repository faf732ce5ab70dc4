package service

import (
	"context"
	"testing"
	"time"

	"Vine/config"
	"Vine/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	s := ParseSettings(nil)
	assert.Equal(t, DefaultSettings(), s)

	s = ParseSettings(map[string]string{
		KeyDailyCheckInReward:  "80",
		KeyAdWatchReward:       "abc",
		KeyReferralBonus:       "0",
		KeyAdCooldownMinutes:   "-3",
		KeyMinimumWithdrawal:   "5000",
		KeyReferralTasksNeeded: "",
		KeyAdsEnabled:          "false",
		KeyCheckInEnabled:      "yes",
	})
	assert.Equal(t, int64(80), s.DailyCheckInReward)
	assert.Equal(t, int64(25), s.AdWatchReward)
	assert.Equal(t, int64(100), s.ReferralBonus)
	assert.Equal(t, int64(5), s.AdCooldownMinutes)
	assert.Equal(t, int64(5000), s.MinimumWithdrawal)
	assert.Equal(t, int64(10), s.TasksForReferralEligibility)
	assert.False(t, s.AdsEnabled)
	assert.True(t, s.CheckInEnabled)
	assert.Equal(t, 5*time.Minute, s.AdCooldown())
}

func TestValidateSetting(t *testing.T) {
	assert.NoError(t, ValidateSetting(KeyReferralBonus, "150"))
	assert.NoError(t, ValidateSetting(KeyAdsEnabled, "false"))
	assert.ErrorIs(t, ValidateSetting(KeyReferralBonus, "0"), ErrInvalidArgument)
	assert.ErrorIs(t, ValidateSetting(KeyMinimumWithdrawal, "1e3"), ErrInvalidArgument)
	assert.ErrorIs(t, ValidateSetting(KeyCheckInEnabled, "off"), ErrInvalidArgument)
	assert.ErrorIs(t, ValidateSetting("theme", "dark"), ErrInvalidArgument)
}

func TestSettingsServiceSeedAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cfg, err := config.Parse([]byte("reward:\n  referral_bonus: 120\n  ads_enabled: false\n"))
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := NewSettingsService(dao.NewSetting(db), nil, cfg.Reward, func() time.Time { return now })

	require.NoError(t, svc.Seed(ctx))
	s, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(120), s.ReferralBonus)
	assert.False(t, s.AdsEnabled)
	assert.True(t, s.CheckInEnabled)

	require.NoError(t, svc.Update(ctx, KeyReferralBonus, "300"))
	assert.ErrorIs(t, svc.Update(ctx, KeyReferralBonus, "free"), ErrInvalidArgument)

	// 再次 seed 不覆盖管理员修改
	require.NoError(t, svc.Seed(ctx))
	s, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(300), s.ReferralBonus)

	raw, err := svc.Raw(ctx)
	require.NoError(t, err)
	assert.Len(t, raw, 8)
	assert.Equal(t, "false", raw[KeyAdsEnabled])
}

func TestSettingsFromConfig(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	raw := SettingsFromConfig(cfg.Reward)
	assert.Equal(t, DefaultSettings(), ParseSettings(raw))
	for key, value := range raw {
		assert.NoError(t, ValidateSetting(key, value), key)
	}
}

func TestStaticSettings(t *testing.T) {
	want := DefaultSettings()
	want.MinimumWithdrawal = 1
	got, err := StaticSettings(want).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
