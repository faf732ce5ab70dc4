package config

type App struct {
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
	// ReferralSalt 生成推荐码的 hashids 盐
	ReferralSalt string `json:"referral_salt" yaml:"referral_salt"`
}
