//go:build wireinject
// +build wireinject

package main

import (
	"Vine/config"
	"Vine/dao"
	"Vine/handler"
	"Vine/pkg/client"
	"Vine/pkg/database"
	"Vine/pkg/locker"
	"Vine/pkg/ratelimit"
	"Vine/pkg/rocketmq"
	"Vine/pkg/server"
	"Vine/service"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	database.NewDB,
	client.NewRedisClient,
	locker.New,
	config.ProvideRewardConfig,
	config.ProvideRocketMQConfig,
	rocketmq.InitProducer,
)

func InitServer(cfg *config.Config) (*server.AppProvider, error) {
	wire.Build(
		infraSet,
		ratelimit.NewRegistryFromConfig,
		server.NewGinEngine,

		wire.Struct(new(handler.Account), "*"),
		wire.Struct(new(handler.Reward), "*"),
		wire.Struct(new(handler.Content), "*"),
		wire.Struct(new(handler.Admin), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),

		dao.ProviderSet,
		service.ProviderSet,
	)
	return nil, nil
}

func InitMigrator(cfg *config.Config) *Migrator {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		config.ProvideRewardConfig,
		dao.NewSetting,
		service.NewClock,
		service.NewSettingsService,
		wire.Bind(new(service.ISettingsService), new(*service.SettingsService)),
		wire.Struct(new(Migrator), "*"),
	)
	return nil
}
