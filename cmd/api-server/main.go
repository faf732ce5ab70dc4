package main

import (
	"fmt"
	"os"

	"Vine/config"
	"Vine/pkg/log"
	"Vine/pkg/server"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	// .env 可选，不存在时直接使用进程环境变量
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := os.Getenv("VINE_CONFIG")
	if path == "" {
		path = fmt.Sprintf("configs/config.%s.yaml", env)
	}
	cfg := config.New(path)
	log.Setup(cfg.Log)

	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "The Vine reward ledger API",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					appProvider, err := InitServer(cfg)
					if err != nil {
						return err
					}
					return server.Run(ctx, appProvider)
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate tables and seed default settings",
				Action: func(ctx *cli.Context) error {
					m := InitMigrator(cfg)
					return m.Run(ctx.Context)
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start server", zap.Error(err))
	}
}
