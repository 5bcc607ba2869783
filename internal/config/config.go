package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// EnvPrefix is used for every key without a dedicated environment variable.
const EnvPrefix = "CUSTDIR"

// ---- Root ----

type Config struct {
	Port       int    `mapstructure:"app_port"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     int    `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`

	Pool      PoolConfig      `mapstructure:"pool"`
	Static    StaticConfig    `mapstructure:"static"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ---- Leaf structs ----

type PoolConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type StaticConfig struct {
	SPADir    string `mapstructure:"spa_dir"`
	PublicDir string `mapstructure:"public_dir"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// dbEnv maps the database keys to their unprefixed environment variables.
var dbEnv = map[string]string{
	"db_host":     "DB_HOST",
	"db_port":     "DB_PORT",
	"db_user":     "DB_USER",
	"db_password": "DB_PASSWORD",
	"db_name":     "DB_NAME",
}

// Load resolves the configuration from embedded defaults, the JSON (or YAML) file at path and the
// environment. Database keys prefer the environment over the file; the HTTP port prefers portArg,
// then the file, then APP_PORT, then the default.
// A missing file is ignored; a malformed value of any source is an error.
func Load(path, portArg string) (Config, error) {
	v := viper.New()

	if err := setDefaults(v); err != nil {
		return Config{}, fmt.Errorf("read defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range dbEnv {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	port, err := resolvePort(v, portArg)
	if err != nil {
		return Config{}, err
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers the embedded defaults as viper defaults so that InConfig only reports
// keys present in the user file.
func setDefaults(v *viper.Viper) error {
	dv := viper.New()
	dv.SetConfigType("yaml")
	if err := dv.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return err
	}
	for _, k := range dv.AllKeys() {
		v.SetDefault(k, dv.Get(k))
	}
	return nil
}

func resolvePort(v *viper.Viper, portArg string) (int, error) {
	if portArg != "" {
		return parsePort("port argument", portArg)
	}
	if v.InConfig("app_port") {
		return parsePort("app_port", v.GetString("app_port"))
	}
	if env := os.Getenv("APP_PORT"); env != "" {
		return parsePort("APP_PORT", env)
	}
	return v.GetInt("app_port"), nil
}

func parsePort(source, raw string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid port %q", source, raw)
	}
	return p, nil
}

// Validate checks the resolved values once at startup.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("app_port out of range: %d", c.Port)
	}
	if c.DBPort <= 0 || c.DBPort > 65535 {
		return fmt.Errorf("db_port out of range: %d", c.DBPort)
	}
	if strings.TrimSpace(c.DBHost) == "" {
		return errors.New("db_host is empty")
	}
	if c.DBName == "" {
		return errors.New("db_name is empty")
	}
	if c.Pool.MaxOpenConns <= 0 {
		return fmt.Errorf("pool.max_open_conns must be positive: %d", c.Pool.MaxOpenConns)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must not be negative: %d", c.RateLimit.RPS)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
