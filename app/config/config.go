package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultAPIBaseURL is the backend the binary talks to unless overridden.
// Set at build time with -ldflags "-X likedposts/app/config.DefaultAPIBaseURL=...".
var DefaultAPIBaseURL = "http://localhost:5000/api"

// Version is stamped at build time.
var Version = "dev"

const EnvPrefix = "LIKEDPOSTS"

type Config struct {
	APIBaseURL     string        `mapstructure:"API_BASE_URL" validate:"required,url"`
	Addr           string        `mapstructure:"ADDR" validate:"required"`
	DBPath         string        `mapstructure:"DB_PATH" validate:"required"`
	SessionSecret  string        `mapstructure:"SESSION_SECRET" validate:"required,min=16"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL" validate:"gte=0"`
	PageSize       int           `mapstructure:"PAGE_SIZE" validate:"gte=1,lte=100"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	AllowedOrigins []string      `mapstructure:"-"`
	LogFile        string        `mapstructure:"LOG_FILE"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_BASE_URL", DefaultAPIBaseURL)
	v.SetDefault("ADDR", ":3000")
	v.SetDefault("DB_PATH", "data")
	v.SetDefault("SESSION_SECRET", "dev-secret-change-me")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_FILE", "")
}

// Load reads .env (if present), the optional config file and the
// LIKEDPOSTS_* environment, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
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
