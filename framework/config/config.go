package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/km-arc/go-modular/framework/modules"
)

// Delimiter separates the segments of a configuration key, so module flags
// read as "Services:<FullTypeName>:Enabled" even though type names contain
// dots.
const Delimiter = ":"

// Config is the typed part of the configuration.
type Config struct {
	App  AppConfig  `mapstructure:"app"`
	Log  LogConfig  `mapstructure:"log"`
	HTTP HTTPConfig `mapstructure:"http"`
}

type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // local | production | testing
	Debug bool   `mapstructure:"debug"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // text | json
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Options controls where configuration is read from.
type Options struct {
	// EnvFiles are loaded into the process environment first. Missing files
	// are ignored. Defaults to ".env".
	EnvFiles []string

	// File is an explicit config file. When empty, "config.{yaml,json,toml}"
	// in the working directory is used if present.
	File string
}

// defaults maps keys to their default value and the environment variable
// that overrides them.
var defaults = []struct {
	key   string
	env   string
	value any
}{
	{"app:name", "APP_NAME", "GoModular"},
	{"app:env", "APP_ENV", "local"},
	{"app:debug", "APP_DEBUG", true},
	{"log:level", "LOG_LEVEL", "info"},
	{"log:format", "LOG_FORMAT", "text"},
	{"http:addr", "HTTP_ADDR", ":8000"},
	{"http:shutdown_timeout", "HTTP_SHUTDOWN_TIMEOUT", 10 * time.Second},
}

// Repository is the configuration source of the application. Any key not
// covered by Config, including module flags, is read through it.
type Repository struct {
	v   *viper.Viper
	cfg Config
}

// Load reads .env files, the optional config file and the environment.
// Call once at bootstrap.
func Load(opts Options) (*Repository, error) {
	files := opts.EnvFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(Delimiter))
	for _, d := range defaults {
		v.SetDefault(d.key, d.value)
		if err := v.BindEnv(d.key, d.env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", d.env, err)
		}
	}

	// Services:pkg/path.Type:Enabled → SERVICES__PKG_PATH_TYPE__ENABLED
	v.SetEnvKeyReplacer(strings.NewReplacer(Delimiter, "__", ".", "_", "/", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	return newRepository(v)
}

// FromMap builds a Repository from in-memory values, without touching the
// environment or the filesystem. Keys use Delimiter.
//
//	config.FromMap(map[string]any{"Services:app/services.MemoryEventBus:Enabled": true})
func FromMap(values map[string]any) (*Repository, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(Delimiter))
	for _, d := range defaults {
		v.SetDefault(d.key, d.value)
	}
	for k, val := range values {
		v.Set(k, val)
	}
	return newRepository(v)
}

func newRepository(v *viper.Viper) (*Repository, error) {
	r := &Repository{v: v}
	if err := v.Unmarshal(&r.cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return r, nil
}

// Config returns the typed configuration.
func (r *Repository) Config() *Config { return &r.cfg }

// File returns the config file in use, or "".
func (r *Repository) File() string { return r.v.ConfigFileUsed() }

// Get returns a raw value.
func (r *Repository) Get(key string) any { return r.v.Get(key) }

// String returns a string value, falling back to defaultVal when unset.
func (r *Repository) String(key, defaultVal string) string {
	if !r.v.IsSet(key) {
		return defaultVal
	}
	return r.v.GetString(key)
}

// Int returns an int value, falling back to defaultVal when unset or not a
// number.
func (r *Repository) Int(key string, defaultVal int) int {
	n, err := cast.ToIntE(r.v.Get(key))
	if !r.v.IsSet(key) || err != nil {
		return defaultVal
	}
	return n
}

// Bool returns a bool value, falling back to defaultVal when unset or not a
// boolean.
func (r *Repository) Bool(key string, defaultVal bool) bool {
	b, err := cast.ToBoolE(r.v.Get(key))
	if !r.v.IsSet(key) || err != nil {
		return defaultVal
	}
	return b
}

// IsSet reports whether a key has a value from any source.
func (r *Repository) IsSet(key string) bool { return r.v.IsSet(key) }

// Set overrides a value in memory.
func (r *Repository) Set(key string, value any) { r.v.Set(key, value) }

// UnmarshalKey decodes the section under key into out. A missing section
// leaves out untouched.
func (r *Repository) UnmarshalKey(key string, out any) error {
	if err := r.v.UnmarshalKey(key, out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// Flag implements modules.FlagSource. Absent and malformed values are
// modules.Unset.
func (r *Repository) Flag(key string) modules.Flag {
	return modules.ParseFlag(r.v.Get(key))
}
