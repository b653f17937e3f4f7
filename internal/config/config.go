package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig возвращается, если настройки противоречат друг другу.
var ErrInvalidConfig = errors.New("invalid config")

// Режимы получения обновлений
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Хранилища
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Хранилища сессий
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config хранит все настройки приложения
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  string         `mapstructure:"storage" validate:"oneof=postgres memory"`
}

// TelegramConfig содержит настройки Bot API
type TelegramConfig struct {
	Token       string `mapstructure:"token" validate:"required"`
	BotUsername string `mapstructure:"bot_username"`
	AdminID     int64  `mapstructure:"admin_id" validate:"gte=0"`
	WebAppURL   string `mapstructure:"web_app_url" validate:"omitempty,url"`
	Mode        string `mapstructure:"mode" validate:"oneof=polling webhook"`
	APIURL      string `mapstructure:"api_url" validate:"omitempty,url"`
	// WebhookSecret сверяется с заголовком X-Telegram-Bot-Api-Secret-Token.
	// Пустой в режиме webhook - генерируется при запуске.
	WebhookSecret string `mapstructure:"webhook_secret" validate:"omitempty,max=256"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string        `mapstructure:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	AllowOrigins []string      `mapstructure:"allow_origins"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// SessionConfig содержит настройки хранения сценариев пользователей
type SessionConfig struct {
	Backend       string        `mapstructure:"backend" validate:"oneof=memory redis"`
	TTL           time.Duration `mapstructure:"ttl" validate:"gte=0"`
	SweepSchedule string        `mapstructure:"sweep_schedule"`
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Color bool   `mapstructure:"color"`
}

// Addr возвращает адрес, который слушает HTTP сервер.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// Flags описывает флаги командной строки, которые переопределяют настройки.
func Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("quizbot", pflag.ContinueOnError)

	flags.String("config", "", "path to the config file (yaml)")
	flags.String("token", "", "token of telegram bot")
	flags.String("bot-username", "", "username of the telegram bot")
	flags.String("port", "", "http server port")
	flags.String("storage", "", "storage backend: postgres or memory")

	return flags
}

// flagKeys - соответствие флагов ключам конфигурации.
var flagKeys = map[string]string{
	"token":        "telegram.token",
	"bot-username": "telegram.bot_username",
	"port":         "server.port",
	"storage":      "storage",
}

// Load загружает конфигурацию: значения по умолчанию, файл path (если задан),
// переменные окружения (и .env) и флаги, в порядке возрастания приоритета.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	vip := viper.New()

	setDefaults(vip)

	if err := bindEnv(vip); err != nil {
		return nil, err
	}

	if path != "" {
		vip.SetConfigFile(path)

		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}

			if err := vip.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет значения полей и их согласованность.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Storage == StoragePostgres && c.Database.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL is required for postgres storage", ErrInvalidConfig)
	}

	if c.Session.Backend == SessionRedis && c.Redis.Addr == "" {
		return fmt.Errorf("%w: REDIS_ADDR is required for redis sessions", ErrInvalidConfig)
	}

	if c.Telegram.Mode == ModeWebhook && c.Telegram.WebAppURL == "" {
		return fmt.Errorf("%w: WEB_APP_URL is required in webhook mode", ErrInvalidConfig)
	}

	if !isSecretToken(c.Telegram.WebhookSecret) {
		return fmt.Errorf("%w: TELEGRAM_WEBHOOK_SECRET may contain only A-Z, a-z, 0-9, _ and -", ErrInvalidConfig)
	}

	return nil
}

// isSecretToken проверяет алфавит, который Telegram допускает в secret_token.
func isSecretToken(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}

	return true
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("telegram.mode", ModePolling)
	vip.SetDefault("server.port", "8000")
	vip.SetDefault("server.read_timeout", 10*time.Second)
	vip.SetDefault("server.write_timeout", 10*time.Second)
	vip.SetDefault("session.backend", SessionMemory)
	vip.SetDefault("session.ttl", 24*time.Hour)
	vip.SetDefault("session.sweep_schedule", "@every 10m")
	vip.SetDefault("redis.db", 0)
	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.color", false)
	vip.SetDefault("storage", StoragePostgres)
}

func bindEnv(vip *viper.Viper) error {
	envs := map[string]string{
		"telegram.token":          "BOT_TOKEN",
		"telegram.bot_username":   "BOT_USERNAME",
		"telegram.admin_id":       "ADMIN_ID",
		"telegram.web_app_url":    "WEB_APP_URL",
		"telegram.mode":           "TELEGRAM_MODE",
		"telegram.api_url":        "TELEGRAM_API_URL",
		"telegram.webhook_secret": "TELEGRAM_WEBHOOK_SECRET",
		"server.port":             "SERVER_PORT",
		"server.allow_origins":    "ALLOW_ORIGINS",
		"database.url":            "DATABASE_URL",
		"session.backend":         "SESSION_BACKEND",
		"session.ttl":             "SESSION_TTL",
		"redis.addr":              "REDIS_ADDR",
		"redis.password":          "REDIS_PASSWORD",
		"redis.db":                "REDIS_DB",
		"log.level":               "LOG_LEVEL",
		"log.color":               "LOG_COLOR",
		"storage":                 "STORAGE",
	}

	for key, env := range envs {
		if err := vip.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	return nil
}
