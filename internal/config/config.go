// Package config loads service configuration: defaults, then an optional
// TOML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/TashaD16/TaskManager/internal/logger"
	"github.com/TashaD16/TaskManager/internal/storage"
)

const (
	DefaultPort            = 3000
	DefaultTasksFile       = "tasks.json"
	DefaultSQLitePath      = "data/tasks.db"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 15 * time.Second
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	Telegram TelegramConfig `toml:"telegram"`
}

type ServerConfig struct {
	Port            int           `toml:"port"`
	CORSOrigins     []string      `toml:"cors_origins"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver     string `toml:"driver"` // file, sqlite, memory
	TasksFile  string `toml:"tasks_file"`
	SQLitePath string `toml:"sqlite_path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type TelegramConfig struct {
	Token string `toml:"token"`
	Debug bool   `toml:"debug"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Storage: StorageConfig{
			Driver:     storage.DriverFile,
			TasksFile:  DefaultTasksFile,
			SQLitePath: DefaultSQLitePath,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Load читает конфиг. path может быть пустым - тогда только defaults и env.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", v, err)
		}
		c.Server.ShutdownTimeout = d
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("TASKS_FILE"); v != "" {
		c.Storage.TasksFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d: must be between 1 and 65535", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %v: must be positive", c.Server.ShutdownTimeout)
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case storage.DriverFile:
		if strings.TrimSpace(c.Storage.TasksFile) == "" {
			return fmt.Errorf("tasks file cannot be empty for driver %q", c.Storage.Driver)
		}
	case storage.DriverSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return fmt.Errorf("sqlite path cannot be empty for driver %q", c.Storage.Driver)
		}
	case storage.DriverMemory:
	default:
		return fmt.Errorf("invalid storage driver %q: must be file, sqlite or memory", c.Storage.Driver)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: must be debug, info, warn or error", c.Log.Level)
	}
	return nil
}

// Address возвращает адрес для http.Server
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// StoragePath - путь для выбранного драйвера
func (c *Config) StoragePath() string {
	if c.Storage.Driver == storage.DriverSQLite {
		return c.Storage.SQLitePath
	}
	return c.Storage.TasksFile
}

func (c *Config) LogLevel() logger.Level {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}
