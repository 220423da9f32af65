package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ansel1/merry"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFileName = "foodhub.yaml"

	EnvDB        = "FOODHUB_DB"
	EnvDriver    = "FOODHUB_DRIVER"
	EnvLogLevel  = "FOODHUB_LOG_LEVEL"
	EnvExportDir = "FOODHUB_EXPORT_DIR"
)

type Config struct {
	Database  Database `yaml:"database" toml:"database"`
	ExportDir string   `yaml:"export_dir" toml:"export_dir" comment:"directory for orders_export_*.csv files"`
	LogLevel  string   `yaml:"log_level" toml:"log_level" comment:"debug, info, warn or err"`
	Monitor   Monitor  `yaml:"monitor" toml:"monitor"`
}

type Database struct {
	Driver string `yaml:"driver" toml:"driver" comment:"sqlite3 (cgo) or sqlite (pure Go)"`
	Path   string `yaml:"path" toml:"path" comment:"SQLite database file"`
}

type Monitor struct {
	Root       string   `yaml:"root" toml:"root" comment:"directory tree to watch"`
	Interval   string   `yaml:"interval" toml:"interval" comment:"time between two scans, e.g. 1s"`
	Duration   string   `yaml:"duration" toml:"duration" comment:"how long to watch, 0 means until interrupted"`
	IgnoreDirs []string `yaml:"ignore_dirs" toml:"ignore_dirs" comment:"directory names or root relative paths to skip"`
}

func (x Monitor) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(x.Interval)
	return d
}

func (x Monitor) WatchDuration() time.Duration {
	d, _ := time.ParseDuration(x.Duration)
	return d
}

// LogLevels are the accepted values of log_level.
var LogLevels = []string{"debug", "info", "warn", "err"}

func isLogLevel(s string) bool {
	for _, x := range LogLevels {
		if s == x {
			return true
		}
	}
	return false
}

func Default() Config {
	return Config{
		Database: Database{
			Driver: "sqlite3",
			Path:   "food_delivery.db",
		},
		ExportDir: ".",
		LogLevel:  "info",
		Monitor: Monitor{
			Root:       ".",
			Interval:   "1s",
			Duration:   "20s",
			IgnoreDirs: []string{"node_modules", ".git", "venv"},
		},
	}
}

func (x Config) Validate() error {
	switch x.Database.Driver {
	case "sqlite3", "sqlite":
	default:
		return merry.Errorf("database.driver: %q, want sqlite3 or sqlite", x.Database.Driver)
	}
	if strings.TrimSpace(x.Database.Path) == "" {
		return merry.New("database.path: must not be empty")
	}
	if !isLogLevel(x.LogLevel) {
		return merry.Errorf("log_level: %q, want one of %s", x.LogLevel, strings.Join(LogLevels, ", "))
	}
	interval, err := time.ParseDuration(x.Monitor.Interval)
	if err != nil {
		return merry.Appendf(err, "monitor.interval")
	}
	if interval <= 0 {
		return merry.Errorf("monitor.interval: %s, must be positive", interval)
	}
	duration, err := time.ParseDuration(x.Monitor.Duration)
	if err != nil {
		return merry.Appendf(err, "monitor.duration")
	}
	if duration < 0 {
		return merry.Errorf("monitor.duration: %s, must not be negative", duration)
	}
	return nil
}

// Load reads the configuration file, writing it with default values first when
// it does not exist. The format follows the extension: .toml or yaml otherwise.
func Load(filename string) (Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		c := Default()
		if err := Save(filename, c); err != nil {
			return Config{}, err
		}
		return c, nil
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, merry.Appendf(err, "read config %s", filename)
	}
	c := Default()
	if isToml(filename) {
		err = toml.Unmarshal(b, &c)
	} else {
		err = yaml.Unmarshal(b, &c)
	}
	if err != nil {
		return Config{}, merry.Appendf(err, "parse config %s", filename)
	}
	if err := c.Validate(); err != nil {
		return Config{}, merry.Appendf(err, "config %s", filename)
	}
	return c, nil
}

func Save(filename string, c Config) error {
	var (
		b   []byte
		err error
	)
	if isToml(filename) {
		b, err = toml.Marshal(c)
	} else {
		b, err = yaml.Marshal(c)
	}
	if err != nil {
		return merry.Appendf(err, "marshal config %s", filename)
	}
	if err := os.WriteFile(filename, b, 0666); err != nil {
		return merry.Appendf(err, "write config %s", filename)
	}
	return nil
}

// ApplyEnv overrides configuration values with the FOODHUB_* environment
// variables that are set.
func ApplyEnv(c *Config) {
	if s := os.Getenv(EnvDB); s != "" {
		c.Database.Path = s
	}
	if s := os.Getenv(EnvDriver); s != "" {
		c.Database.Driver = s
	}
	if s := os.Getenv(EnvLogLevel); s != "" {
		c.LogLevel = s
	}
	if s := os.Getenv(EnvExportDir); s != "" {
		c.ExportDir = s
	}
}

// Resolve builds the configuration used by a process: .env file, then the
// config file, then the environment. It is called once at startup and the
// result is passed to every operation.
func Resolve(filename string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, merry.Append(err, "load .env")
	}
	c, err := Load(filename)
	if err != nil {
		return Config{}, err
	}
	ApplyEnv(&c)
	if err := c.Validate(); err != nil {
		return Config{}, merry.Append(err, "environment")
	}
	return c, nil
}

func isToml(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".toml")
}
