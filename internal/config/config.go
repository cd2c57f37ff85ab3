package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dusk-indust/usercrud/internal/userapi"
	"gopkg.in/yaml.v3"
)

// Config holds settings loaded from usercrud.yml and USERCRUD_* variables.
type Config struct {
	APIURL       string        `yaml:"apiURL,omitempty" env:"USERCRUD_API_URL"`
	NameField    string        `yaml:"nameField,omitempty" env:"USERCRUD_NAME_FIELD"`
	Timeout      time.Duration `yaml:"timeout,omitempty" env:"USERCRUD_TIMEOUT"`
	Addr         string        `yaml:"addr,omitempty" env:"USERCRUD_ADDR"`
	MCPAddr      string        `yaml:"mcpAddr,omitempty" env:"USERCRUD_MCP_ADDR"`
	OTelEndpoint string        `yaml:"otelEndpoint,omitempty" env:"USERCRUD_OTEL_ENDPOINT"`
	Verbose      bool          `yaml:"verbose,omitempty" env:"USERCRUD_VERBOSE"`
	MaxSessions  int           `yaml:"maxSessions,omitempty" env:"USERCRUD_MAX_SESSIONS"`
	SessionIdle  time.Duration `yaml:"sessionIdle,omitempty" env:"USERCRUD_SESSION_IDLE"`
	DevAPI       DevAPIConfig  `yaml:"devapi,omitempty" envPrefix:"USERCRUD_DEVAPI_"`
}

// DevAPIConfig configures the local reference UserService.
type DevAPIConfig struct {
	Addr string `yaml:"addr,omitempty" env:"ADDR"`

	// DBPath selects the SQLite store; empty keeps records in memory.
	DBPath string `yaml:"dbPath,omitempty" env:"DB_PATH"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:      userapi.DefaultBaseURL,
		NameField:   userapi.NameFieldName,
		Timeout:     30 * time.Second,
		Addr:        ":8080",
		MaxSessions: 10000,
		SessionIdle: 30 * time.Minute,
		DevAPI: DevAPIConfig{
			Addr: ":8081",
		},
	}
}

// Load reads usercrud.yml or usercrud.yaml from dir over the defaults, then
// applies environment overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"usercrud.yml", "usercrud.yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	cfg := Default()
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads the given file over the defaults, then applies environment
// overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return cfg.Validate()
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("apiURL is required")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("apiURL must be an http(s) URL, got %q", c.APIURL)
	}
	if err := userapi.ValidNameField(c.NameField); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0")
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("maxSessions must be >= 0")
	}
	if c.SessionIdle < 0 {
		return fmt.Errorf("sessionIdle must be >= 0")
	}
	return nil
}

// ClientOptions returns the userapi options implied by the config.
func (c *Config) ClientOptions() []userapi.ClientOption {
	opts := []userapi.ClientOption{userapi.WithNameField(c.NameField)}
	if c.Timeout > 0 {
		opts = append(opts, userapi.WithTimeout(c.Timeout))
	}
	return opts
}
