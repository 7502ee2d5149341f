package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = ".env"

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Log         LogConfig         `mapstructure:"log"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Profile     ProfileConfig     `mapstructure:"profile"`
	Relation    RelationConfig    `mapstructure:"relation"`
	Data        DataConfig        `mapstructure:"data"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	LogLevel string `mapstructure:"log_level"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RedisConfig selects the leaderboard cache backend. An empty Addr keeps the
// cache in process.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LeaderboardConfig struct {
	ExcludedUsers []uint        `mapstructure:"excluded_users"`
	Limit         int           `mapstructure:"limit"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

type ProfileConfig struct {
	OnlineTimeout time.Duration `mapstructure:"online_timeout"`
}

type RelationConfig struct {
	WorkSize int `mapstructure:"work_size"`
	K        int `mapstructure:"k"`
}

type DataConfig struct {
	ReleaseDates string `mapstructure:"release_dates"`
}

// Load reads configuration from the environment, falling back to a local
// .env file for keys that are not already set.
func Load() (*Config, error) {
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for _, k := range v.AllKeys() {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.url", "postgresql://postgres@localhost:5432/mark2cure")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("jwt.secret", "your-super-secret-key-change-in-production")
	v.SetDefault("jwt.expiration", 24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("leaderboard.excluded_users", []uint{5, 160})
	v.SetDefault("leaderboard.limit", 25)
	v.SetDefault("leaderboard.cache_ttl", time.Minute)

	v.SetDefault("profile.online_timeout", 5*time.Minute)

	v.SetDefault("relation.work_size", 20)
	v.SetDefault("relation.k", 15)

	v.SetDefault("data.release_dates", "")
}

func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Leaderboard.Limit <= 0 {
		return errors.New("leaderboard.limit must be positive")
	}
	return nil
}

func (c Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
