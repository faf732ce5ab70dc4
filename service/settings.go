package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"Vine/config"
	"Vine/dao"
	"Vine/pkg/log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	KeyDailyCheckInReward   = "daily_checkin_reward"
	KeyAdWatchReward        = "ad_watch_reward"
	KeyReferralBonus        = "referral_bonus"
	KeyAdCooldownMinutes    = "ad_cooldown_minutes"
	KeyMinimumWithdrawal    = "min_withdrawal"
	KeyReferralTasksNeeded  = "referral_tasks_required"
	KeyAdsEnabled           = "ads_enabled"
	KeyCheckInEnabled       = "checkin_enabled"
	settingsCacheKey        = "vine:settings"
	settingsSingleflightKey = "settings"
)

var intSettingKeys = []string{
	KeyDailyCheckInReward,
	KeyAdWatchReward,
	KeyReferralBonus,
	KeyAdCooldownMinutes,
	KeyMinimumWithdrawal,
	KeyReferralTasksNeeded,
}

var boolSettingKeys = []string{KeyAdsEnabled, KeyCheckInEnabled}

// Settings 一次操作开始时读取的奖励参数快照
type Settings struct {
	DailyCheckInReward          int64 `json:"daily_checkin_reward"`
	AdWatchReward               int64 `json:"ad_watch_reward"`
	ReferralBonus               int64 `json:"referral_bonus"`
	AdCooldownMinutes           int64 `json:"ad_cooldown_minutes"`
	MinimumWithdrawal           int64 `json:"min_withdrawal"`
	TasksForReferralEligibility int64 `json:"referral_tasks_required"`
	AdsEnabled                  bool  `json:"ads_enabled"`
	CheckInEnabled              bool  `json:"checkin_enabled"`
}

func DefaultSettings() Settings {
	return Settings{
		DailyCheckInReward:          50,
		AdWatchReward:               25,
		ReferralBonus:               100,
		AdCooldownMinutes:           5,
		MinimumWithdrawal:           3000,
		TasksForReferralEligibility: 10,
		AdsEnabled:                  true,
		CheckInEnabled:              true,
	}
}

func (s Settings) AdCooldown() time.Duration {
	return time.Duration(s.AdCooldownMinutes) * time.Minute
}

// ParseSettings 缺失、无法解析或非正数的取默认值；开关只有 "false" 表示关闭
func ParseSettings(raw map[string]string) Settings {
	s := DefaultSettings()
	ints := map[string]*int64{
		KeyDailyCheckInReward:  &s.DailyCheckInReward,
		KeyAdWatchReward:       &s.AdWatchReward,
		KeyReferralBonus:       &s.ReferralBonus,
		KeyAdCooldownMinutes:   &s.AdCooldownMinutes,
		KeyMinimumWithdrawal:   &s.MinimumWithdrawal,
		KeyReferralTasksNeeded: &s.TasksForReferralEligibility,
	}
	for key, dst := range ints {
		if v, err := strconv.ParseInt(raw[key], 10, 64); err == nil && v > 0 {
			*dst = v
		}
	}
	s.AdsEnabled = raw[KeyAdsEnabled] != "false"
	s.CheckInEnabled = raw[KeyCheckInEnabled] != "false"
	return s
}

// SettingsFromConfig migrate 时写入的初始值
func SettingsFromConfig(r *config.Reward) map[string]string {
	return map[string]string{
		KeyDailyCheckInReward:  strconv.Itoa(r.DailyCheckInReward),
		KeyAdWatchReward:       strconv.Itoa(r.AdWatchReward),
		KeyReferralBonus:       strconv.Itoa(r.ReferralBonus),
		KeyAdCooldownMinutes:   strconv.Itoa(r.AdCooldownMinutes),
		KeyMinimumWithdrawal:   strconv.Itoa(r.MinimumWithdrawal),
		KeyReferralTasksNeeded: strconv.Itoa(r.TasksForReferralEligibility),
		KeyAdsEnabled:          strconv.FormatBool(*r.AdsEnabled),
		KeyCheckInEnabled:      strconv.FormatBool(*r.CheckInEnabled),
	}
}

// ValidateSetting 管理员写入前校验
func ValidateSetting(key, value string) error {
	for _, k := range intSettingKeys {
		if k == key {
			v, err := strconv.ParseInt(value, 10, 64)
			if err != nil || v <= 0 {
				return fmt.Errorf("%w: %s must be a positive integer", ErrInvalidArgument, key)
			}
			return nil
		}
	}
	for _, k := range boolSettingKeys {
		if k == key {
			if value != "true" && value != "false" {
				return fmt.Errorf("%w: %s must be true or false", ErrInvalidArgument, key)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: unknown setting %q", ErrInvalidArgument, key)
}

type ISettingsProvider interface {
	Get(ctx context.Context) (Settings, error)
}

// StaticSettings 固定参数，用于测试
type StaticSettings Settings

func (s StaticSettings) Get(context.Context) (Settings, error) {
	return Settings(s), nil
}

var _ ISettingsProvider = StaticSettings{}

type ISettingsService interface {
	ISettingsProvider
	Raw(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, key, value string) error
	Seed(ctx context.Context) error
}

// SettingsService settings 表读取，redis 短 TTL 缓存，并发读合并为一次查询
type SettingsService struct {
	SettingDAO *dao.Setting
	Redis      *redis.Client
	Reward     *config.Reward
	Clock      Clock

	group singleflight.Group
}

var _ ISettingsService = (*SettingsService)(nil)

func NewSettingsService(settingDAO *dao.Setting, rdb *redis.Client, reward *config.Reward, clock Clock) *SettingsService {
	return &SettingsService{
		SettingDAO: settingDAO,
		Redis:      rdb,
		Reward:     reward,
		Clock:      clock,
	}
}

func (s *SettingsService) Get(ctx context.Context) (Settings, error) {
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, settingsCacheKey).Bytes(); err == nil {
			var cached Settings
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			log.L.Warn("read settings cache failed", zap.Error(err))
		}
	}

	v, err, _ := s.group.Do(settingsSingleflightKey, func() (any, error) {
		raw, err := s.SettingDAO.All(ctx)
		if err != nil {
			return nil, err
		}
		settings := ParseSettings(raw)
		s.cache(ctx, settings)
		return settings, nil
	})
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return v.(Settings), nil
}

func (s *SettingsService) cache(ctx context.Context, settings Settings) {
	if s.Redis == nil {
		return
	}
	body, _ := json.Marshal(settings)
	if err := s.Redis.Set(ctx, settingsCacheKey, body, s.Reward.SettingsTTL).Err(); err != nil {
		log.L.Warn("write settings cache failed", zap.Error(err))
	}
}

func (s *SettingsService) Raw(ctx context.Context) (map[string]string, error) {
	return s.SettingDAO.All(ctx)
}

func (s *SettingsService) Update(ctx context.Context, key, value string) error {
	if err := ValidateSetting(key, value); err != nil {
		return err
	}
	if err := s.SettingDAO.Upsert(ctx, key, value, s.Clock()); err != nil {
		return fmt.Errorf("update setting %s: %w", key, err)
	}
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, settingsCacheKey).Err(); err != nil {
			log.L.Warn("invalidate settings cache failed", zap.Error(err))
		}
	}
	log.L.Info("setting updated", zap.String("key", key), zap.String("value", value))
	return nil
}

func (s *SettingsService) Seed(ctx context.Context) error {
	return s.SettingDAO.SeedMissing(ctx, SettingsFromConfig(s.Reward), s.Clock())
}
