// Package config handles configuration loading and validation for signup.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/signup/internal/core/rules"
	"github.com/hay-kot/signup/internal/core/signup"
	"github.com/hay-kot/signup/internal/core/styles"
)

// Modes for the birthday rule's reference day.
const (
	TodayModeFixed = "fixed" // captured once at startup
	TodayModeLive  = "live"  // re-read on every check
)

// DefaultEndpoint is the public JSON echo service the form posts to.
const DefaultEndpoint = "https://jsonplaceholder.typicode.com/posts"

// Config holds the application configuration.
type Config struct {
	Submit SubmitConfig `yaml:"submit"`
	Serve  ServeConfig  `yaml:"serve"`
	TUI    TUIConfig    `yaml:"tui"`
	Form   FormConfig   `yaml:"form"`
	Dates  DatesConfig  `yaml:"dates"`
}

// SubmitConfig configures the submission endpoint.
type SubmitConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ServeConfig configures the local mock collector started by `signup serve`.
type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Store string `yaml:"store,omitempty"` // JSON file for accepted records; empty keeps them in memory
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// FormConfig describes the inputs rendered by the form. When Fields is empty
// the stock layout is used; otherwise Fields is the complete layout.
type FormConfig struct {
	Title  string        `yaml:"title"`
	Fields []FieldConfig `yaml:"fields,omitempty"`
}

// FieldConfig defines a single input of the form.
type FieldConfig struct {
	Name        string `yaml:"name"`        // input name, e.g. "email"
	Label       string `yaml:"label"`       // display label
	Placeholder string `yaml:"placeholder"` // placeholder text
}

// DatesConfig controls the birthday rule.
type DatesConfig struct {
	TodayMode string `yaml:"today_mode"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Submit: SubmitConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  10 * time.Second,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8085",
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Form: FormConfig{
			Title: "Create your account",
		},
		Dates: DatesConfig{
			TodayMode: TodayModeFixed,
		},
	}
}

// Load reads configuration from the given path. If configPath is empty or
// doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Submit.Endpoint == "" {
		c.Submit.Endpoint = defaults.Submit.Endpoint
	}
	if c.Submit.Timeout == 0 {
		c.Submit.Timeout = defaults.Submit.Timeout
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = defaults.Serve.Addr
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Form.Title == "" {
		c.Form.Title = defaults.Form.Title
	}
	if c.Dates.TodayMode == "" {
		c.Dates.TodayMode = defaults.Dates.TodayMode
	}
}

// Layout returns the form layout described by the config. Labels and
// placeholders missing from a configured field fall back to the stock layout.
func (c *Config) Layout() signup.Layout {
	stock := signup.DefaultLayout()
	if len(c.Form.Fields) == 0 {
		return stock
	}

	layout := make(signup.Layout, 0, len(c.Form.Fields))
	for _, fc := range c.Form.Fields {
		f := rules.Field(fc.Name)
		in, ok := stock.Lookup(f)
		if !ok {
			in = signup.Input{Field: f}
		}
		if fc.Label != "" {
			in.Label = fc.Label
		}
		if fc.Placeholder != "" {
			in.Placeholder = fc.Placeholder
		}
		layout = append(layout, in)
	}
	return layout
}

// Rules returns the validation rules for the configured today mode. In fixed
// mode the reference day is now.
func (c *Config) Rules(now time.Time) rules.Rules {
	if c.Dates.TodayMode == TodayModeLive {
		return rules.Live(time.Now)
	}
	return rules.New(now)
}
