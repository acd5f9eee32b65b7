package backend

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the admin API connection settings. Values load from the
// environment, optionally seeded from a YAML file.
type Config struct {
	BaseURL    string        `yaml:"base_url" env:"CONSOLE_API_URL" env-default:"http://localhost:3000/api/v1"`
	Token      string        `yaml:"token" env:"CONSOLE_API_TOKEN"`
	Timeout    time.Duration `yaml:"timeout" env:"CONSOLE_API_TIMEOUT" env-default:"10s"`
	RetryCount int           `yaml:"retry_count" env:"CONSOLE_API_RETRIES" env-default:"2"`
	Debug      bool          `yaml:"debug" env:"CONSOLE_API_DEBUG" env-default:"false"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config file, then applies environment
// overrides.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
