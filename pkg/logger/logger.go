package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，InitLogger 之前为空操作 logger
var Log = zap.NewNop()

// InitLogger 初始化 zap 日志
// mode: debug 模式使用开发配置（彩色、可读），其他模式使用生产配置（JSON）
func InitLogger(mode string) error {
	var cfg zap.Config
	if mode == "debug" || mode == "test" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync 刷新缓冲区，程序退出前调用
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
