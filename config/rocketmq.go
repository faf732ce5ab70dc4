package config

type RocketMQConfig struct {
	NameServer []string `yaml:"nameserver"`

	Producer Producer `yaml:"producer"`

	// Topic 领域事件统一投递的 topic
	Topic string `yaml:"topic"`
}

type Producer struct {
	Group string `yaml:"group"`
	Retry int    `yaml:"retry"`
}

func (r *RocketMQConfig) Enabled() bool {
	return r != nil && len(r.NameServer) > 0
}

func ProvideRocketMQConfig(cfg *Config) *RocketMQConfig {
	return cfg.RocketMQ
}
