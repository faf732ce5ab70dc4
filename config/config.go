package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App       *App             `json:"app" yaml:"app"`
	Server    *Server          `json:"server" yaml:"server"`
	Database  *Database        `json:"database" yaml:"database"`
	Redis     *Redis           `json:"redis" yaml:"redis"`
	Jwt       *Jwt             `json:"jwt" yaml:"jwt"`
	RocketMQ  *RocketMQConfig  `json:"rocketmq" yaml:"rocketmq"`
	Log       *Log             `json:"log" yaml:"log"`
	Reward    *Reward          `json:"reward" yaml:"reward"`
	Scheduler *SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	RateLimit *RateLimit       `json:"rate_limit" yaml:"rate_limit"`
}

type Server struct {
	Http int `json:"http" yaml:"http"`
}

type SchedulerConfig struct {
	// ReferralSweep 多久扫描一次可以晋级的推荐记录
	ReferralSweep time.Duration `json:"referral_sweep" yaml:"referral_sweep"`
}

type RateLimit struct {
	PerSecond float64 `json:"per_second" yaml:"per_second"`
	Burst     int     `json:"burst" yaml:"burst"`
}

func New(filename string) *Config {
	content, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	conf, err := Parse(content)
	if err != nil {
		panic(fmt.Sprintf("解析 %s 读取错误: %v", filename, err))
	}
	return conf
}

// Parse 解析 yaml 内容并补齐缺省值
func Parse(content []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal(content, &conf); err != nil {
		return nil, err
	}
	conf.applyDefaults()
	return &conf, nil
}

func (c *Config) applyDefaults() {
	if c.App == nil {
		c.App = &App{Env: "dev"}
	}
	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Http == 0 {
		c.Server.Http = 8080
	}
	if c.Database == nil {
		c.Database = &Database{Driver: "sqlite", Name: "vine.db"}
	}
	if c.Redis == nil {
		c.Redis = &Redis{}
	}
	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}
	if c.RocketMQ == nil {
		c.RocketMQ = &RocketMQConfig{}
	}
	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Reward == nil {
		c.Reward = &Reward{}
	}
	c.Reward.applyDefaults()
	if c.Scheduler == nil {
		c.Scheduler = &SchedulerConfig{}
	}
	if c.Scheduler.ReferralSweep <= 0 {
		c.Scheduler.ReferralSweep = 10 * time.Minute
	}
	if c.RateLimit == nil {
		c.RateLimit = &RateLimit{PerSecond: 2, Burst: 5}
	}
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
