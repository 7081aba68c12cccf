package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver string `mapstructure:"driver"` // "postgres" or "sqlite"
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Server struct {
		Addr            string        `mapstructure:"addr"`
		Port            int           `mapstructure:"port"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Security struct {
		NonceSecret string        `mapstructure:"nonce_secret"`
		NonceTTL    time.Duration `mapstructure:"nonce_ttl"`
	} `mapstructure:"security"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Events struct {
		Enabled bool   `mapstructure:"enabled"`
		Queue   string `mapstructure:"queue"`
	} `mapstructure:"events"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
		Audit  bool   `mapstructure:"audit"`
	} `mapstructure:"logging"`

	Listing struct {
		DefaultPerPage int   `mapstructure:"default_per_page"`
		PerPageOptions []int `mapstructure:"per_page_options"`
	} `mapstructure:"listing"`
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "bulkcat.db")

	v.SetDefault("server.addr", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// keys without a default are invisible to AutomaticEnv during Unmarshal
	v.SetDefault("security.nonce_secret", "")
	v.SetDefault("security.nonce_ttl", 24*time.Hour)

	v.SetDefault("redis.address", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.queue", "events")

	v.SetDefault("worker.concurrency", 5)
	v.SetDefault("worker.queues", map[string]int{"events": 1})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.audit", false)

	v.SetDefault("listing.default_per_page", 20)
	v.SetDefault("listing.per_page_options", []int{20, 30, 50, 100})
}

// LoadConfig reads config.yaml from the working directory (if any), then
// BULKCAT_* environment variables, on top of the defaults.
func LoadConfig() (*Config, error) {
	return load(viper.New(), "")
}

// LoadConfigFile is LoadConfig with an explicit file path.
func LoadConfigFile(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BULKCAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config.yaml is fine; defaults and env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Debugf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ConfigureLogging applies the logging section to the standard logrus logger.
func ConfigureLogging(c *Config) error {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	switch c.Logging.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
