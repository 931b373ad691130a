package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mada_server_go/services"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Переменные окружения, перекрывающие значения из файла.
const (
	EnvListen    = "MADA_LISTEN"
	EnvDatabase  = "MADA_DB"
	EnvJWTSecret = "MADA_JWT_SECRET"
)

// CalendarConfig - правила календаря.
type CalendarConfig struct {
	// DdayLimit - сколько записей допускается до отказа в новой D-day.
	DdayLimit int `yaml:"dday_limit"`
	// QuotaMode: "all" считает все записи пользователя, "dday_only" только D-day.
	QuotaMode string `yaml:"quota_mode"`
	// CollisionMode: "legacy" сравнивает дату окончания, "overlap" пересечение интервалов.
	CollisionMode string `yaml:"collision_mode"`
	// ExpiryCron - расписание пометки прошедших записей истекшими. Пустая строка отключает.
	ExpiryCron string `yaml:"expiry_cron"`
}

// Config - конфигурация сервера.
type Config struct {
	Listen     string         `yaml:"listen"`
	Database   string         `yaml:"database"`
	JWTSecret  string         `yaml:"jwt_secret"`
	TokenTTL   time.Duration  `yaml:"token_ttl"`
	LogLevel   string         `yaml:"log_level"`
	UploadsDir string         `yaml:"uploads_dir"`
	Calendar   CalendarConfig `yaml:"calendar"`
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() *Config {
	return &Config{
		Listen:     ":8080",
		Database:   "MadaServer.db",
		TokenTTL:   24 * time.Hour,
		LogLevel:   "info",
		UploadsDir: "./uploads",
		Calendar: CalendarConfig{
			DdayLimit:     services.DefaultDdayLimit,
			QuotaMode:     string(services.QuotaAllEntries),
			CollisionMode: string(services.CollisionLegacy),
			ExpiryCron:    "@daily",
		},
	}
}

// Normalize заполняет пустые значения значениями по умолчанию.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Database == "" {
		c.Database = def.Database
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = def.TokenTTL
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.UploadsDir == "" {
		c.UploadsDir = def.UploadsDir
	}
	if c.Calendar.DdayLimit <= 0 {
		c.Calendar.DdayLimit = def.Calendar.DdayLimit
	}
	if c.Calendar.QuotaMode == "" {
		c.Calendar.QuotaMode = def.Calendar.QuotaMode
	}
	if c.Calendar.CollisionMode == "" {
		c.Calendar.CollisionMode = def.Calendar.CollisionMode
	}
}

// ApplyEnv перекрывает значения переменными окружения.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.JWTSecret = v
	}
}

// Validate проверяет значения, которые нельзя исправить молча.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is empty (set it in the config or %s)", EnvJWTSecret)
	}
	if _, err := services.ParseQuotaMode(c.Calendar.QuotaMode); err != nil {
		return err
	}
	if _, err := services.ParseCollisionMode(c.Calendar.CollisionMode); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Calendar.ExpiryCron != "" {
		if _, err := cron.ParseStandard(c.Calendar.ExpiryCron); err != nil {
			return fmt.Errorf("invalid calendar.expiry_cron %q: %w", c.Calendar.ExpiryCron, err)
		}
	}
	return nil
}

// CalendarOptions переводит секцию calendar в настройки сервиса.
// Вызывается после Validate.
func (c *Config) CalendarOptions() services.CalendarOptions {
	quota, _ := services.ParseQuotaMode(c.Calendar.QuotaMode)
	collision, _ := services.ParseCollisionMode(c.Calendar.CollisionMode)
	return services.CalendarOptions{
		DdayLimit:     c.Calendar.DdayLimit,
		QuotaMode:     quota,
		CollisionMode: collision,
	}
}

// ParseLogLevel разбирает debug|info|warn|error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
	}
}

// Load читает конфигурацию из YAML.
// Если файла нет, он создается со значениями по умолчанию (права 0600).
// Переменные окружения применяются после чтения файла.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg := DefaultConfig()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		cfg.ApplyEnv()
		return cfg, nil
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	cfg.ApplyEnv()
	return cfg, nil
}

// Save атомарно записывает конфигурацию: временный файл в той же директории и rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".mada-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
