package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/pressgate-dev/pressgate/internal/domain"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds non-secret settings loaded from public.yaml.
type Public struct {
	Port            int                    `yaml:"port"`
	LogLevel        string                 `yaml:"log_level"`
	LogJSON         bool                   `yaml:"log_json"`
	JwtTTL          time.Duration          `yaml:"jwt_ttl"`
	DefaultPageSize int                    `yaml:"default_page_size"`
	MaxPageSize     int                    `yaml:"max_page_size"`
	StatsMonths     int                    `yaml:"stats_months"` // most-recent buckets in trend stats
	NotifyBuffer    int                    `yaml:"notify_buffer"`
	AllowedOrigins  []string               `yaml:"allowed_origins"`
	Pg              Pg                     `yaml:"pg"`
	Realms          map[domain.Realm]Realm `yaml:"realms"`
}

type Pg struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	Dbname string `yaml:"dbname"`
}

// Realm configures one identity/content scope. EmailDomain empty means any
// address may register; MinRejectNote is the shortest reviewer note a
// rejection accepts.
type Realm struct {
	EmailDomain   string `yaml:"email_domain"`
	MinRejectNote int    `yaml:"min_reject_note"`
}

// Private holds secrets, read from the process environment. A .env file is
// loaded first when present (development convenience, never required).
type Private struct {
	JwtKey      string   `env:"PRESSGATE_JWT_KEY,required"`
	PgPassword  string   `env:"PRESSGATE_PG_PASSWORD"`
	AdminEmails []string `env:"PRESSGATE_ADMIN_EMAILS" envSeparator:","`
	Smtp        Smtp     `envPrefix:"PRESSGATE_SMTP_"`
}

type Smtp struct {
	Server     string `env:"SERVER"`
	Port       int    `env:"PORT" envDefault:"587"`
	Username   string `env:"USERNAME"`
	Password   string `env:"PASSWORD"`
	SenderName string `env:"SENDER_NAME" envDefault:"pressgate"`
	Timeout    int    `env:"TIMEOUT" envDefault:"10"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	if c.Public.JwtTTL == 0 {
		return 7 * 24 * time.Hour
	}
	return c.Public.JwtTTL
}

// Realm returns the configuration of a realm and whether it exists.
func (c *Config) Realm(name domain.Realm) (Realm, bool) {
	r, ok := c.Public.Realms[name]
	return r, ok
}

// IsAllowListed reports whether email belongs to the configured admin
// allow-list. Comparison is case-insensitive.
func (c *Config) IsAllowListed(email domain.Email) bool {
	for _, admin := range c.Private.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

// SmtpConfigured reports whether outbound mail can actually be sent.
func (c *Config) SmtpConfigured() bool {
	return c.Private.Smtp.Server != "" && c.Private.Smtp.Username != ""
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// MustLoad reads public.yaml from configFolder and secrets from the
// environment, panicking on any problem. Call once at startup.
func MustLoad(configFolder string) *Config {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	if err := env.Parse(&private); err != nil {
		panic("can't parse environment config: " + err.Error())
	}

	cfg := &Config{Public: public, Private: private}
	if err := cfg.validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) validate() error {
	if len(c.Private.JwtKey) < 32 {
		return fmt.Errorf("PRESSGATE_JWT_KEY must be at least 32 bytes")
	}
	if len(c.Public.Realms) == 0 {
		return fmt.Errorf("config: at least one realm must be defined")
	}
	for name, realm := range c.Public.Realms {
		if realm.MinRejectNote < 1 {
			return fmt.Errorf("config: realm %q: min_reject_note must be >= 1", name)
		}
	}
	return nil
}
