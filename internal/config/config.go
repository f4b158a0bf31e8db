package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Log      *LogConfig      `mapstructure:"log"`
	Lottery  *LotteryConfig  `mapstructure:"lottery"`
	Mail     *MailConfig     `mapstructure:"mail"`
	Metrics  *MetricsConfig  `mapstructure:"metrics"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the key/value connection string understood by pgx.
func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type LotteryConfig struct {
	// CloseTime is the HH:MM wall clock time at which today's draw is closed.
	CloseTime             string `mapstructure:"close_time"`
	Timezone              string `mapstructure:"timezone"`
	MaxBallotsPerPurchase int    `mapstructure:"max_ballots_per_purchase"`
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (c *LotteryConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation -> %w", err)
	}

	return loc, nil
}

// ClockTime parses CloseTime into hour and minute.
func (c *LotteryConfig) ClockTime() (int, int, error) {
	t, err := time.Parse("15:04", c.CloseTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lottery.close_time %q -> %w", c.CloseTime, err)
	}

	return t.Hour(), t.Minute(), nil
}

type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("log.level", "info")
	v.SetDefault("lottery.close_time", "20:00")
	v.SetDefault("lottery.timezone", "UTC")
	v.SetDefault("lottery.max_ballots_per_purchase", 10)
	v.SetDefault("mail.port", 587)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("LOTTERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *AppConfig) validate() error {
	if c.API == nil || c.Gin == nil || c.Postgres == nil || c.Log == nil || c.Lottery == nil || c.Mail == nil || c.Metrics == nil {
		return fmt.Errorf("config is missing a section")
	}
	if _, _, err := c.Lottery.ClockTime(); err != nil {
		return err
	}
	if _, err := c.Lottery.Location(); err != nil {
		return err
	}
	if c.Lottery.MaxBallotsPerPurchase < 1 {
		return fmt.Errorf("lottery.max_ballots_per_purchase must be positive")
	}

	return nil
}

// Load reads the YAML file at path, applying LOTTERY_* environment overrides.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

// Watch loads path like Load and invokes onChange with the re-decoded config each
// time the file is written. Invalid edits are reported through onError and ignored.
func Watch(path string, onChange func(*AppConfig), onError func(error)) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		updated, err := decode(v)
		if err != nil {
			onError(fmt.Errorf("reload %s -> %w", e.Name, err))
			return
		}
		onChange(updated)
	})
	v.WatchConfig()

	return conf, nil
}
