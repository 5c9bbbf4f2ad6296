package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"productmanagement/pkg/config"
)

// Config 应用配置
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Data          DataConfig          `mapstructure:"data"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Idempotency   IdempotencyConfig   `mapstructure:"idempotency"`
	Events        EventsConfig        `mapstructure:"events"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	MetricsPort     int           `mapstructure:"metrics_port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// DataConfig 数据文档配置
type DataConfig struct {
	// PathData 数据文件路径
	PathData string `mapstructure:"path_data"`
	// Locker file（跨进程）或 memory（仅进程内）
	Locker         string        `mapstructure:"locker"`
	LockTimeout    time.Duration `mapstructure:"lock_timeout"`
	LockRetryDelay time.Duration `mapstructure:"lock_retry_delay"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	OTELEndpoint   string  `mapstructure:"otel_endpoint"`
	OTELProtocol   string  `mapstructure:"otel_protocol"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
	ServiceName    string  `mapstructure:"service_name"`
	ServiceVersion string  `mapstructure:"service_version"`
	Environment    string  `mapstructure:"environment"`
	EnableTrace    bool    `mapstructure:"enable_trace"`
	LogLevel       string  `mapstructure:"log_level"`
	LogFormat      string  `mapstructure:"log_format"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Redis       RedisConfig   `mapstructure:"redis"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// IdempotencyConfig 幂等配置（共用限流的 Redis）
type IdempotencyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// EventsConfig 变更事件配置
type EventsConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// RedisRequired 是否需要连接 Redis
func (c *Config) RedisRequired() bool {
	return c.RateLimit.Enabled || c.Idempotency.Enabled
}

var validator = config.NewValidator().
	AddRule("server.http_port", false, config.ValidatePort).
	AddRule("server.metrics_port", false, config.ValidatePort).
	AddRule("data.path_data", false, config.ValidateNotEmpty).
	AddRule("data.locker", false, config.ValidateOneOf("file", "memory")).
	AddRule("observability.log_format", false, config.ValidateOneOf("json", "console")).
	AddRule("observability.otel_protocol", false, config.ValidateOneOf("grpc", "http"))

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 5*time.Second)

	v.SetDefault("data.path_data", "data/catalog.xml")
	v.SetDefault("data.locker", "file")
	v.SetDefault("data.lock_timeout", 5*time.Second)
	v.SetDefault("data.lock_retry_delay", 10*time.Millisecond)

	v.SetDefault("observability.otel_endpoint", "localhost:4317")
	v.SetDefault("observability.otel_protocol", "grpc")
	v.SetDefault("observability.sampling_rate", 1.0)
	v.SetDefault("observability.service_name", "product-service")
	v.SetDefault("observability.service_version", "1.0.0")
	v.SetDefault("observability.environment", "development")
	v.SetDefault("observability.enable_trace", false)
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.redis.addr", "localhost:6379")
	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("idempotency.enabled", false)
	v.SetDefault("idempotency.ttl", 24*time.Hour)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.brokers", []string{"localhost:9092"})
	v.SetDefault("events.topic", "product.catalog")
}

// Load 加载配置，configPath 为空时在 ./configs 下查找 product-service.yaml，
// 找不到配置文件时使用默认值。
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("product-service")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("./cmd/product-service/configs")
	}

	// 自动从环境变量读取，如 DATA_PATH_DATA
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := validator.Validate(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 兼容旧部署使用的 PathData 变量
	cfg.Data.PathData = config.GetEnvOrDefault("PathData", cfg.Data.PathData)
	cfg.RateLimit.Redis.Password = config.GetEnvOrDefault("REDIS_PASSWORD", cfg.RateLimit.Redis.Password)
	cfg.Observability.OTELEndpoint = config.GetEnvOrDefault("OTEL_ENDPOINT", cfg.Observability.OTELEndpoint)

	if cfg.Data.PathData == "" {
		return nil, fmt.Errorf("data.path_data is required")
	}
	return &cfg, nil
}
