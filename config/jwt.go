package config

type Jwt struct {
	Secret string `json:"secret" yaml:"secret"`
	Issuer string `json:"issuer" yaml:"issuer"`
}
