// Package config loads rc5-go settings from defaults, a YAML file, RC5_*
// environment variables and command-line overrides, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"rc5-go/pkg/rc5"
	"rc5-go/pkg/transform"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const EnvPrefix = "RC5"

type Config struct {
	WordSize        int           `mapstructure:"word_size"`
	Rounds          int           `mapstructure:"rounds"`
	KeySize         int           `mapstructure:"key_size"` // 0 accepts any key length
	Encoding        string        `mapstructure:"encoding"`
	ConfigFile      string        `mapstructure:"config_file"`
	LogDB           string        `mapstructure:"log_db"` // empty logs to the console only
	LogLevel        string        `mapstructure:"log_level"`
	ListenAddr      string        `mapstructure:"listen_address"`
	RateLimit       float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst       int           `mapstructure:"rate_burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		WordSize:        int(rc5.WordSize32),
		Rounds:          rc5.DefaultRounds,
		KeySize:         16,
		Encoding:        transform.EncodingHex,
		ConfigFile:      "rc5.yaml",
		LogLevel:        "info",
		ListenAddr:      "127.0.0.1:7780",
		RateLimit:       50,
		RateBurst:       100,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Override adjusts the viper instance after file and environment are read.
type Override func(v *viper.Viper)

// Set forces key to value, the way an explicitly given flag does.
func Set(key string, value any) Override {
	return func(v *viper.Viper) { v.Set(key, value) }
}

// Load builds the configuration. configFile may be a bare name searched in
// the working directory, /etc/rc5-go and $HOME/.rc5-go, or a path; an
// explicit path must exist, a missing default file is ignored.
func Load(configFile string, overrides ...Override) (*Config, error) {
	cfg := DefaultConfig()
	explicit := configFile != ""
	if !explicit {
		configFile = cfg.ConfigFile
	}

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.ContainsRune(configFile, filepath.Separator) {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(configFile, filepath.Ext(configFile)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/rc5-go/")
		v.AddConfigPath("$HOME/.rc5-go")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	for _, o := range overrides {
		o(v)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.ConfigFile = used
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it on Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("word_size", cfg.WordSize)
	v.SetDefault("rounds", cfg.Rounds)
	v.SetDefault("key_size", cfg.KeySize)
	v.SetDefault("encoding", cfg.Encoding)
	v.SetDefault("config_file", cfg.ConfigFile)
	v.SetDefault("log_db", cfg.LogDB)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("listen_address", cfg.ListenAddr)
	v.SetDefault("rate_limit", cfg.RateLimit)
	v.SetDefault("rate_burst", cfg.RateBurst)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)
}

func (c *Config) Validate() error {
	if _, err := rc5.ParseWordSize(c.WordSize); err != nil {
		return fmt.Errorf("%w: word_size %d: %w", ErrInvalidConfig, c.WordSize, err)
	}
	if c.Rounds < 0 || c.Rounds > 255 {
		return fmt.Errorf("%w: rounds %d outside 0..255", ErrInvalidConfig, c.Rounds)
	}
	if c.KeySize < 0 || c.KeySize > rc5.MaxKeySize {
		return fmt.Errorf("%w: key_size %d outside 0..%d", ErrInvalidConfig, c.KeySize, rc5.MaxKeySize)
	}
	if _, err := transform.NewTextTransform(c.Encoding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("%w: negative rate limit", ErrInvalidConfig)
	}
	if c.RateLimit > 0 && c.RateBurst == 0 {
		return fmt.Errorf("%w: rate_burst must be positive when rate_limit is set", ErrInvalidConfig)
	}
	return nil
}

// Params returns the cipher parameters. Call Validate first.
func (c *Config) Params() rc5.Params {
	return rc5.Params{WordSize: rc5.WordSize(c.WordSize), Rounds: uint8(c.Rounds)}
}
