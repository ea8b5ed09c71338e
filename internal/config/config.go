package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	StorageMongo = "mongo"
	StorageMySQL = "mysql"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Mongo     MongoConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Survey    SurveyConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port            string
	Mode            string
	StaticDir       string `mapstructure:"static_dir"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// MongoConfig 文档库连接参数，超时单位为秒
type MongoConfig struct {
	URI             string `mapstructure:"uri"`
	Database        string `mapstructure:"database"`
	Collection      string `mapstructure:"collection"`
	Timeout         int    `mapstructure:"timeout_seconds"`
	MaxPoolSize     uint64 `mapstructure:"max_pool_size"`
	IdleConnTimeout int    `mapstructure:"idle_conn_timeout_seconds"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool `mapstructure:"parse_time"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level      string
	File       string
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// SurveyConfig Fixture 为空时使用内置问卷
type SurveyConfig struct {
	Fixture string `mapstructure:"fixture"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.static_dir", "client/build")
	v.SetDefault("server.shutdown_timeout", 5)

	v.SetDefault("storage.driver", StorageMongo)

	v.SetDefault("mongo.database", "health_survey")
	v.SetDefault("mongo.collection", "surveyresponses")
	v.SetDefault("mongo.timeout_seconds", 10)
	v.SetDefault("mongo.max_pool_size", 50)
	v.SetDefault("mongo.idle_conn_timeout_seconds", 45)

	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("HEALTH_SURVEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.static_dir", "STATIC_DIR")

	// Storage
	v.BindEnv("storage.driver", "STORAGE_DRIVER")

	// Mongo
	v.BindEnv("mongo.uri", "MONGODB_URI")
	v.BindEnv("mongo.database", "MONGODB_DATABASE")

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Log
	v.BindEnv("log.level", "LOG_LEVEL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// 只有环境变量也可以启动（容器部署）
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMongo:
		if c.Mongo.URI == "" {
			return errors.New("MONGODB_URI is not defined")
		}
		if c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return errors.New("mongo database and collection must be set")
		}
		if c.Mongo.Timeout <= 0 {
			return fmt.Errorf("mongo.timeout_seconds must be positive, got %d", c.Mongo.Timeout)
		}
	case StorageMySQL:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("database host and dbname must be set for the mysql driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.WindowMinutes <= 0 {
		return fmt.Errorf("rate_limit values must be positive, got %d/%dm", c.RateLimit.MaxRequests, c.RateLimit.WindowMinutes)
	}

	return nil
}
