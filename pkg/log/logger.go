package log

import (
	"os"
	"strconv"
	"strings"

	"Vine/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var L *zap.Logger

func init() {
	L = newLogger(zap.InfoLevel, zapcore.AddSync(os.Stdout))
}

// Setup 按配置重建全局 logger，file 不为空时同时写滚动文件
func Setup(conf *config.Log) {
	if conf == nil {
		return
	}
	level := zap.InfoLevel
	if conf.Level != "" {
		if l, err := zapcore.ParseLevel(conf.Level); err == nil {
			level = l
		}
	}

	ws := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if conf.File != "" {
		ws = append(ws, zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAgeDays,
			Compress:   true,
		}))
	}
	L = newLogger(level, zapcore.NewMultiWriteSyncer(ws...))
}

func newLogger(level zapcore.Level, ws zapcore.WriteSyncer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		projectName := "Vine"

		index := strings.Index(caller.File, projectName)
		if index != -1 {
			enc.AppendString(caller.File[index:] + ":" + strconv.Itoa(caller.Line))
		} else {
			enc.AppendString(caller.TrimmedPath())
		}
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	core := zapcore.NewCore(encoder, ws, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}
