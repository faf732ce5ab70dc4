package config

import "fmt"

type Database struct {
	Driver   string `json:"driver" yaml:"driver"` // mysql | postgres | sqlite
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Name     string `json:"name" yaml:"name"`

	MaxOpenConns    int `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int `json:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime int `json:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 秒
}

func (d *Database) Dsn() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			d.Host, d.Port, d.Username, d.Password, d.Name)
	case "sqlite":
		return d.Name
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Name)
	}
}
