package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fms/internal/dashboard"
	"github.com/starford/fms/internal/gateway"
	"github.com/starford/fms/internal/models"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Environment overrides applied after the config file.
const (
	EnvUseRemote  = "FMS_USE_REMOTE"
	EnvAPIBaseURL = "FMS_API_BASE_URL"
	EnvAIAgentURL = "FMS_AI_AGENT_URL"
)

// DefaultAIAgentURL is the AI agent endpoint used when none is configured.
const DefaultAIAgentURL = "http://localhost:8000"

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Substrate SubstrateConfig   `yaml:"substrate"`
	Remote    RemoteConfig      `yaml:"remote"`
	Auth      AuthConfig        `yaml:"auth"`
	Policy    PolicyConfig      `yaml:"policy"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Substrate.Validate(); err != nil {
		return err
	}
	if err := c.Remote.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Policy.Validate()
}

// ApplyEnv overrides remote settings from the environment.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvUseRemote); ok && strings.TrimSpace(v) != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvUseRemote, err)
		}
		c.Remote.Enabled = enabled
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		c.Remote.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAIAgentURL)); v != "" {
		c.Remote.AIAgentURL = v
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SubstrateConfig selects the key-value backend.
//
// DSN schemes: memory://, file:///dir, sqlite:///file.db, redis://host/db,
// postgres://..., none://. Watch only applies to file:// and publishes
// writes made by other processes to SSE clients.
type SubstrateConfig struct {
	DSN   string `yaml:"dsn"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the substrate configuration.
func (c *SubstrateConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DSN, validation.Required),
	)
}

// RemoteAreas enables the remote path per feature area.
type RemoteAreas struct {
	Dashboard bool `yaml:"dashboard"`
	POS       bool `yaml:"pos"`
	Board     bool `yaml:"board"`
}

// RemoteConfig holds the remote API settings.
type RemoteConfig struct {
	Enabled    bool          `yaml:"enabled"`
	BaseURL    string        `yaml:"base_url"`
	AIAgentURL string        `yaml:"ai_agent_url"`
	Timeout    time.Duration `yaml:"timeout"`
	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64     `yaml:"rate_limit"`
	Burst     int         `yaml:"burst"`
	Areas     RemoteAreas `yaml:"areas"`
}

var absoluteURL = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
})

// Validate validates the remote configuration.
func (c *RemoteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, absoluteURL),
		validation.Field(&c.AIAgentURL, absoluteURL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.RateLimit, validation.Min(0.0)),
		validation.Field(&c.Burst, validation.When(c.RateLimit > 0, validation.Required, validation.Min(1))),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// PolicyConfig tunes derived views.
type PolicyConfig struct {
	ClusterMinStores   int           `yaml:"cluster_min_stores"`
	ClusterWindow      time.Duration `yaml:"cluster_window"`
	ClusterThreshold   string        `yaml:"cluster_threshold"`
	PriorityStoreLimit int           `yaml:"priority_store_limit"`
}

// Validate validates the policy configuration.
func (c *PolicyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ClusterMinStores, validation.Min(1)),
		validation.Field(&c.ClusterWindow, validation.Min(time.Duration(0))),
		validation.Field(&c.ClusterThreshold, validation.By(func(any) error {
			if c.ClusterThreshold == "" {
				return nil
			}
			if _, ok := models.ParseRiskLevel(c.ClusterThreshold); !ok {
				return errors.New("must be low, medium, high or critical")
			}
			return nil
		})),
		validation.Field(&c.PriorityStoreLimit, validation.Min(0)),
	)
}

// InsightPolicy returns the cluster detection policy.
func (c *PolicyConfig) InsightPolicy() dashboard.InsightPolicy {
	lvl, _ := models.ParseRiskLevel(c.ClusterThreshold)
	return dashboard.InsightPolicy{
		MinStores: c.ClusterMinStores,
		Window:    c.ClusterWindow,
		Threshold: lvl,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	policy := dashboard.DefaultInsightPolicy()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8081,
			},
		},
		Substrate: SubstrateConfig{
			DSN: "file://./data",
		},
		Remote: RemoteConfig{
			BaseURL:    gateway.DefaultBaseURL,
			AIAgentURL: DefaultAIAgentURL,
			Timeout:    15 * time.Second,
			Areas:      RemoteAreas{Dashboard: true, POS: true, Board: true},
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Policy: PolicyConfig{
			ClusterMinStores:   policy.MinStores,
			ClusterWindow:      policy.Window,
			ClusterThreshold:   string(policy.Threshold),
			PriorityStoreLimit: 5,
		},
	}
}
