package database

import (
	"time"

	"Vine/config"
	"Vine/pkg/log"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接
func NewDB(conf *config.Config) *gorm.DB {
	gormConf := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	if conf.Debug() {
		gormConf.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(Dialector(conf.Database), gormConf)
	if err != nil {
		log.L.Fatal("failed to connect database", zap.String("driver", conf.Database.Driver), zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.L.Fatal("failed to get sql.DB", zap.Error(err))
	}
	if conf.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.Database.MaxOpenConns)
	}
	if conf.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.Database.MaxIdleConns)
	}
	if conf.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(conf.Database.ConnMaxLifetime) * time.Second)
	}
	log.L.Info("connect database success", zap.String("driver", conf.Database.Driver))
	return db
}

// Dialector 根据 driver 选择 gorm 方言，默认 mysql
func Dialector(conf *config.Database) gorm.Dialector {
	switch conf.Driver {
	case "postgres":
		return postgres.Open(conf.Dsn())
	case "sqlite":
		return sqlite.Open(conf.Dsn())
	default:
		return mysql.Open(conf.Dsn())
	}
}
