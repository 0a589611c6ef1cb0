// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Dataset  DatasetConfig     `yaml:"dataset"`
	Journal  JournalConfig     `yaml:"journal"`
	Matching MatchingConfig    `yaml:"matching"`
	Vision   VisionConfig      `yaml:"vision"`
	Text     TextConfig        `yaml:"text"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Dataset.Validate(); err != nil {
		return err
	}
	if err := c.Journal.Validate(); err != nil {
		return err
	}
	if err := c.Matching.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
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

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DatasetConfig holds the path to the nutrition CSV dataset.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the dataset configuration.
func (c *DatasetConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// JournalConfig holds the paths of the append-only log files.
type JournalConfig struct {
	MealLog     string `yaml:"meal_log"`
	FeedbackLog string `yaml:"feedback_log"`
}

// Validate validates the journal configuration.
func (c *JournalConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MealLog, validation.Required),
		validation.Field(&c.FeedbackLog, validation.Required),
	)
}

// MatchingConfig holds the fuzzy-matching policy. Resolution uses a
// stricter threshold than suggestion listing.
type MatchingConfig struct {
	ResolveThreshold int `yaml:"resolve_threshold"`
	SuggestMinScore  int `yaml:"suggest_min_score"`
	SuggestLimit     int `yaml:"suggest_limit"`
}

// Validate validates the matching configuration.
func (c *MatchingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ResolveThreshold, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.SuggestMinScore, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.SuggestLimit, validation.Required, validation.Min(1)),
	)
}

// VisionConfig configures the image-classifier adapter. An empty region
// leaves the adapter disabled and the analyze endpoint unavailable.
type VisionConfig struct {
	Region string `yaml:"region"`
}

// Enabled reports whether the classifier should be constructed.
func (c *VisionConfig) Enabled() bool {
	return c.Region != ""
}

// TextConfig configures the text-generation adapter. An empty API key
// leaves the adapter disabled.
type TextConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// Enabled reports whether the text generator should be constructed.
func (c *TextConfig) Enabled() bool {
	return c.APIKey != ""
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

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8000,
			},
		},
		Dataset: DatasetConfig{
			Path: "./data/nutrition.csv",
		},
		Journal: JournalConfig{
			MealLog:     "./meal_log.json",
			FeedbackLog: "./feedback_log.json",
		},
		Matching: MatchingConfig{
			ResolveThreshold: 85,
			SuggestMinScore:  75,
			SuggestLimit:     4,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
