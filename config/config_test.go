package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	conf, err := Parse([]byte("app:\n  env: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.App.Env)
	assert.Equal(t, 8080, conf.Server.Http)
	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.False(t, conf.Redis.Enabled())
	assert.False(t, conf.RocketMQ.Enabled())
	assert.Equal(t, 10*time.Minute, conf.Scheduler.ReferralSweep)
	assert.Equal(t, 5, conf.RateLimit.Burst)

	r := conf.Reward
	assert.Equal(t, 50, r.DailyCheckInReward)
	assert.Equal(t, 25, r.AdWatchReward)
	assert.Equal(t, 100, r.ReferralBonus)
	assert.Equal(t, 5, r.AdCooldownMinutes)
	assert.Equal(t, 3000, r.MinimumWithdrawal)
	assert.Equal(t, 10, r.TasksForReferralEligibility)
	assert.True(t, *r.AdsEnabled)
	assert.True(t, *r.CheckInEnabled)
	assert.Equal(t, 5*time.Second, r.SettingsTTL)
}

func TestParseOverrides(t *testing.T) {
	content := `
reward:
  daily_checkin_reward: 70
  ads_enabled: false
  settings_ttl: 1s
redis:
  address: 127.0.0.1
rocketmq:
  nameserver: ["127.0.0.1:9876"]
`
	conf, err := Parse([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, 70, conf.Reward.DailyCheckInReward)
	assert.False(t, *conf.Reward.AdsEnabled)
	assert.True(t, *conf.Reward.CheckInEnabled)
	assert.Equal(t, time.Second, conf.Reward.SettingsTTL)
	assert.True(t, conf.Redis.Enabled())
	assert.True(t, conf.RocketMQ.Enabled())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("server: [1, 2"))
	assert.Error(t, err)
}

func TestDsn(t *testing.T) {
	pg := &Database{Driver: "postgres", Host: "db", Port: 5432, Username: "u", Password: "p", Name: "vine"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=vine sslmode=disable TimeZone=UTC", pg.Dsn())

	lite := &Database{Driver: "sqlite", Name: "file::memory:"}
	assert.Equal(t, "file::memory:", lite.Dsn())

	my := &Database{Driver: "mysql", Host: "db", Port: 3306, Username: "u", Password: "p", Name: "vine"}
	assert.Equal(t, "u:p@tcp(db:3306)/vine?charset=utf8mb4&parseTime=True&loc=UTC", my.Dsn())
}
