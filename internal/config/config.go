package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g.
// SHOPSEARCH_BACKEND_BASE_URL or SHOPSEARCH_SERVER_PORT.
const EnvPrefix = "SHOPSEARCH_"

type ProxyConfig struct {
	Mode string   `yaml:"mode" env:"MODE"` // disabled|env|list
	List []string `yaml:"list" env:"LIST" envSeparator:","`
}

type Root struct {
	Env   string      `yaml:"env"`
	Proxy ProxyConfig `yaml:"proxy"`
	Local Config      `yaml:"local"`
	Dev   Config      `yaml:"dev"`
	Prod  Config      `yaml:"prod"`
}

type LogConfig struct {
	Level     string `yaml:"level" env:"LEVEL"`
	Format    string `yaml:"format" env:"FORMAT"`
	AddSource bool   `yaml:"add_source" env:"ADD_SOURCE"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"HOST"`
	Port int    `yaml:"port" env:"PORT"`
}

type BackendConfig struct {
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
}

type HTTPConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	Concurrency    int     `yaml:"concurrency" env:"CONCURRENCY"`
	RatePerSecond  float64 `yaml:"rate_per_second" env:"RATE_PER_SECOND"`
}

type SessionConfig struct {
	LifetimeMinutes int    `yaml:"lifetime_minutes" env:"LIFETIME_MINUTES"`
	CookieName      string `yaml:"cookie_name" env:"COOKIE_NAME"`
}

type CLIConfig struct {
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`
}

type Config struct {
	Env string `yaml:"-"`

	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
	Backend BackendConfig `yaml:"backend" envPrefix:"BACKEND_"`
	HTTP    HTTPConfig    `yaml:"http" envPrefix:"HTTP_"`
	Proxy   ProxyConfig   `yaml:"proxy" envPrefix:"PROXY_"`
	Session SessionConfig `yaml:"session" envPrefix:"SESSION_"`
	CLI     CLIConfig     `yaml:"cli" envPrefix:"CLI_"`
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

func (c *Config) SessionLifetime() time.Duration {
	return time.Duration(c.Session.LifetimeMinutes) * time.Minute
}

// Load reads the profile file, picks the active profile and applies
// SHOPSEARCH_* overrides. An empty path skips the file and starts from
// defaults, so the binaries can run on env alone.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var root Root
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &root); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	envName := root.Env
	if v, ok := os.LookupEnv(EnvPrefix + "ENV"); ok {
		envName = v
	}
	envName = strings.TrimSpace(strings.ToLower(envName))
	if envName == "" {
		envName = "local"
	}

	var p Config
	switch envName {
	case "local":
		p = root.Local
	case "dev":
		p = root.Dev
	case "prod":
		p = root.Prod
	default:
		return nil, fmt.Errorf("unknown env=%q (expected local|dev|prod)", envName)
	}
	p.Env = envName

	if isProxyEmpty(p.Proxy) && !isProxyEmpty(root.Proxy) {
		p.Proxy = root.Proxy
	}

	if err := env.ParseWithOptions(&p, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}

	applyDefaults(&p)
	return &p, nil
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

func isProxyEmpty(px ProxyConfig) bool {
	return strings.TrimSpace(px.Mode) == "" && len(px.List) == 0
}

func applyDefaults(p *Config) {
	p.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(p.Backend.BaseURL), "/")
	if p.Backend.BaseURL == "" {
		p.Backend.BaseURL = "http://localhost:3000"
	}

	if p.Server.Host == "" {
		p.Server.Host = "0.0.0.0"
	}
	if p.Server.Port == 0 {
		p.Server.Port = 8080
	}

	if p.HTTP.TimeoutSeconds <= 0 {
		p.HTTP.TimeoutSeconds = 60
	}
	if p.HTTP.Concurrency < 0 {
		p.HTTP.Concurrency = 0
	}
	if p.HTTP.Concurrency == 0 {
		p.HTTP.Concurrency = 4
	}
	if p.HTTP.RatePerSecond < 0 {
		p.HTTP.RatePerSecond = 0
	}

	if p.Session.LifetimeMinutes <= 0 {
		p.Session.LifetimeMinutes = 60
	}
	if p.Session.CookieName == "" {
		p.Session.CookieName = "shopsearch_session"
	}

	if p.CLI.OutputDir == "" {
		p.CLI.OutputDir = "."
	}

	if p.Log.Level == "" {
		if p.Env == "prod" {
			p.Log.Level = "info"
		} else {
			p.Log.Level = "debug"
		}
	}
	if p.Log.Format == "" {
		if p.Env == "prod" {
			p.Log.Format = "json"
		} else {
			p.Log.Format = "text"
		}
	}

	p.Proxy.Mode = strings.ToLower(strings.TrimSpace(p.Proxy.Mode))
	if p.Proxy.Mode == "" {
		p.Proxy.Mode = "disabled"
	}

	if len(p.Proxy.List) > 0 {
		clean := make([]string, 0, len(p.Proxy.List))
		for _, s := range p.Proxy.List {
			s = strings.TrimSpace(s)
			if s != "" {
				clean = append(clean, s)
			}
		}
		p.Proxy.List = clean
	}
}
