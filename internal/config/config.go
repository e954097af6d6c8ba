package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log-format" env:"TTT_LOG_FORMAT" env-default:"json"`
	SessionID string `yaml:"session-id" env:"TTT_SESSION_ID" env-default:"local"`
	NoColor   bool   `yaml:"no-color" env:"NO_COLOR"`
	Redis     Redis  `yaml:"redis"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"TTT_REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"TTT_REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"TTT_REDIS_PORT" env-default:"6379"`
	TTL     time.Duration `yaml:"ttl" env:"TTT_REDIS_TTL" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads the config file at path, falling back to environment variables
// and defaults when the file does not exist.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	default:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
