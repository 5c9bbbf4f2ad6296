package log

import (
	"fmt"

	klog "github.com/go-kratos/kratos/v2/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Level          string
	Format         string
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// NewZap 按配置构建 zap.Logger，format 为 json 时使用生产配置
func NewZap(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// 设置日志级别
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	// 添加字段
	zapConfig.InitialFields = map[string]interface{}{
		"service":     cfg.ServiceName,
		"version":     cfg.ServiceVersion,
		"environment": cfg.Environment,
	}

	return zapConfig.Build(zap.AddCallerSkip(3))
}

var _ klog.Logger = (*ZapLogger)(nil)

// ZapLogger 以 zap 实现 kratos log.Logger
type ZapLogger struct {
	log *zap.Logger
}

// NewZapLogger 创建 kratos 日志适配器
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{log: l}
}

// Log 实现 kratos log.Logger，keyvals 按 key/value 成对解析
func (l *ZapLogger) Log(level klog.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "KEYVALS UNPAIRED")
	}

	msg := ""
	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if key == klog.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}

	if ce := l.log.Check(zapLevel(level), msg); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

// Sync 刷新缓冲
func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}

// Zap 底层 zap.Logger
func (l *ZapLogger) Zap() *zap.Logger {
	return l.log
}

func zapLevel(level klog.Level) zapcore.Level {
	switch level {
	case klog.LevelDebug:
		return zapcore.DebugLevel
	case klog.LevelWarn:
		return zapcore.WarnLevel
	case klog.LevelError:
		return zapcore.ErrorLevel
	case klog.LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
