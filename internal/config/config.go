package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"` // mysql | postgres | sqlite
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	SSLMode   string `mapstructure:"sslmode"`
	DSN       string `mapstructure:"dsn"` // 优先于上面各字段
	LogLevel  string `mapstructure:"log_level"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ServiceName       string `mapstructure:"service_name"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AnalysisConfig 控制区分度计算的分组规则以及结果写入时的按键加锁
type AnalysisConfig struct {
	MinResponses      int     `mapstructure:"min_responses"`
	GroupFraction     float64 `mapstructure:"group_fraction"`
	MinGroupSize      int     `mapstructure:"min_group_size"`
	MinMedianSplit    int     `mapstructure:"min_median_split"`
	AllowGroupOverlap bool    `mapstructure:"allow_group_overlap"`
	LockTTLSeconds    int     `mapstructure:"lock_ttl_seconds"`
	LockWaitSeconds   int     `mapstructure:"lock_wait_seconds"`
}

func (a AnalysisConfig) LockTTL() time.Duration {
	return time.Duration(a.LockTTLSeconds) * time.Second
}

func (a AnalysisConfig) LockWait() time.Duration {
	return time.Duration(a.LockWaitSeconds) * time.Second
}

// DefaultAnalysisConfig 与经典的 27% 上下组划分一致
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MinResponses:      10,
		GroupFraction:     0.27,
		MinGroupSize:      2,
		MinMedianSplit:    4,
		AllowGroupOverlap: true,
		LockTTLSeconds:    30,
		LockWaitSeconds:   10,
	}
}

func setDefaults(v *viper.Viper) {
	def := DefaultAnalysisConfig()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("rate_limit.max_requests", 6000)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("tracing.service_name", "item-bank-backend")

	v.SetDefault("analysis.min_responses", def.MinResponses)
	v.SetDefault("analysis.group_fraction", def.GroupFraction)
	v.SetDefault("analysis.min_group_size", def.MinGroupSize)
	v.SetDefault("analysis.min_median_split", def.MinMedianSplit)
	v.SetDefault("analysis.allow_group_overlap", def.AllowGroupOverlap)
	v.SetDefault("analysis.lock_ttl_seconds", def.LockTTLSeconds)
	v.SetDefault("analysis.lock_wait_seconds", def.LockWaitSeconds)
}

func LoadConfig(path string) (*Config, error) {
	// .env 文件可选
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ITEM_BANK")
	v.AutomaticEnv()

	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")
	v.BindEnv("database.dsn", "DATABASE_DSN")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}

	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	a := c.Analysis
	if a.MinResponses < 1 {
		return fmt.Errorf("analysis.min_responses must be positive, got %d", a.MinResponses)
	}
	if a.GroupFraction <= 0 || a.GroupFraction > 1 {
		return fmt.Errorf("analysis.group_fraction must be in (0, 1], got %v", a.GroupFraction)
	}
	if a.MinGroupSize < 1 || a.MinMedianSplit < 2 {
		return fmt.Errorf("analysis.min_group_size and analysis.min_median_split are too small")
	}
	// ttl 为 0 时 redis 锁永不过期
	if a.LockTTLSeconds < 1 || a.LockWaitSeconds < 1 {
		return fmt.Errorf("analysis.lock_ttl_seconds and analysis.lock_wait_seconds must be positive")
	}
	return nil
}
