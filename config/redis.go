package config

// Redis Redis配置信息，Address 为空时不启用
type Redis struct {
	Address  string `json:"address" yaml:"address"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database int    `json:"database" yaml:"database"`
}

func (r *Redis) Enabled() bool {
	return r != nil && r.Address != ""
}
