package config

import "time"

// Reward 奖励参数的初始值，migrate 时写入 settings 表；运行期以 settings 表为准
type Reward struct {
	DailyCheckInReward          int   `yaml:"daily_checkin_reward"`
	AdWatchReward               int   `yaml:"ad_watch_reward"`
	ReferralBonus               int   `yaml:"referral_bonus"`
	AdCooldownMinutes           int   `yaml:"ad_cooldown_minutes"`
	MinimumWithdrawal           int   `yaml:"min_withdrawal"`
	TasksForReferralEligibility int   `yaml:"referral_tasks_required"`
	AdsEnabled                  *bool `yaml:"ads_enabled"`
	CheckInEnabled              *bool `yaml:"checkin_enabled"`

	// SettingsTTL settings 在 redis 中的缓存时长，保持很短
	SettingsTTL time.Duration `yaml:"settings_ttl"`
}

func (r *Reward) applyDefaults() {
	if r.DailyCheckInReward <= 0 {
		r.DailyCheckInReward = 50
	}
	if r.AdWatchReward <= 0 {
		r.AdWatchReward = 25
	}
	if r.ReferralBonus <= 0 {
		r.ReferralBonus = 100
	}
	if r.AdCooldownMinutes <= 0 {
		r.AdCooldownMinutes = 5
	}
	if r.MinimumWithdrawal <= 0 {
		r.MinimumWithdrawal = 3000
	}
	if r.TasksForReferralEligibility <= 0 {
		r.TasksForReferralEligibility = 10
	}
	if r.AdsEnabled == nil {
		r.AdsEnabled = boolPtr(true)
	}
	if r.CheckInEnabled == nil {
		r.CheckInEnabled = boolPtr(true)
	}
	if r.SettingsTTL <= 0 {
		r.SettingsTTL = 5 * time.Second
	}
}

func ProvideRewardConfig(cfg *Config) *Reward {
	return cfg.Reward
}

func boolPtr(b bool) *bool { return &b }
