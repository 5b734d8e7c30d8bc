package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	CORS bool   `mapstructure:"cors"`
}

type DBConfig struct {
	// Driver is mysql or sqlite. Empty disables the relational store.
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	// Path is the sqlite database file.
	Path     string `mapstructure:"path"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (d DBConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

func (d DBConfig) Enabled() bool {
	return d.Driver != ""
}

type RedisConfig struct {
	// Addr empty disables the audio blob store.
	Addr string `mapstructure:"addr"`
	Pass string `mapstructure:"password"`
	DB   int    `mapstructure:"db"`
	// AudioTTL zero keeps blobs until their transcript is deleted.
	AudioTTL time.Duration `mapstructure:"audio_ttl"`
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

type AlignmentConfig struct {
	// Provider is openai, whisper_asr or none.
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Configured reports whether the alignment stage should run at all.
// The openai provider needs a key, whisper_asr needs a base URL.
func (a AlignmentConfig) Configured() bool {
	switch a.Provider {
	case "openai":
		return a.APIKey != ""
	case "whisper_asr":
		return a.BaseURL != ""
	default:
		return false
	}
}

type PipelineConfig struct {
	MaxUploadBytes   int64  `mapstructure:"max_upload_bytes"`
	BatchConcurrency int    `mapstructure:"batch_concurrency"`
	ReconcilePolicy  string `mapstructure:"reconcile_policy"`
}

type AuthConfig struct {
	// JWTSecret empty switches the API to X-Session-Key scoping.
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

type LogConfig struct {
	Debug      bool   `mapstructure:"debug"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Settings struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Alignment AlignmentConfig `mapstructure:"alignment"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Env       string          `mapstructure:"env"`
}

const MaxUploadBytes = 20 * 1024 * 1024

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors", true)
	v.SetDefault("database.driver", "")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.path", "omniscribe.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.audio_ttl", 0)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-3-flash-preview")
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("alignment.provider", "openai")
	v.SetDefault("alignment.api_key", "")
	v.SetDefault("alignment.base_url", "https://api.groq.com/openai/v1/")
	v.SetDefault("alignment.model", "whisper-large-v3-turbo")
	v.SetDefault("alignment.timeout", 2*time.Minute)
	v.SetDefault("pipeline.max_upload_bytes", MaxUploadBytes)
	v.SetDefault("pipeline.batch_concurrency", 3)
	v.SetDefault("pipeline.reconcile_policy", "refine")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_hours", 24*30)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 10)
	v.SetDefault("log.max_age_days", 30)
}

func Load() (*Settings, error) {
	return LoadFrom(viper.New(), ".")
}

// LoadFrom reads config_<env>.yaml from dir into a fresh viper instance.
// The file is optional; environment variables prefixed OMNISCRIBE_ win.
func LoadFrom(v *viper.Viper, dir string) (*Settings, error) {
	v.SetEnvPrefix("OMNISCRIBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config_" + genEnv(v))
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if settings.Pipeline.MaxUploadBytes <= 0 {
		settings.Pipeline.MaxUploadBytes = MaxUploadBytes
	}
	if settings.Pipeline.BatchConcurrency <= 0 {
		settings.Pipeline.BatchConcurrency = 3
	}

	return &settings, nil
}

func genEnv(v *viper.Viper) string {
	env := v.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
