package config

import (
	"fmt"
	"net/url"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/signup/internal/core/styles"
)

// Validate checks that the configuration is valid. Errors are returned as
// criterio.FieldErrors keyed by the YAML path of the offending option.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("submit.endpoint", c.Submit.Endpoint, ValidateEndpoint),
		c.validateTimeout(),
		criterio.Run("serve.addr", c.Serve.Addr, required),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		criterio.Run("dates.today_mode", c.Dates.TodayMode, todayMode),
		c.validateFields(),
	)
}

func (c *Config) validateTimeout() error {
	if c.Submit.Timeout <= 0 {
		return criterio.NewFieldErrors("submit.timeout", fmt.Errorf("must be positive, got %s", c.Submit.Timeout))
	}
	return nil
}

// validateFields checks that a configured layout names every form input
// exactly once.
func (c *Config) validateFields() error {
	if len(c.Form.Fields) == 0 {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	for i, f := range c.Form.Fields {
		if f.Name == "" {
			errs = errs.Append(fmt.Sprintf("form.fields[%d].name", i), fmt.Errorf("name is required"))
		}
	}
	if err := errs.ToError(); err != nil {
		return err
	}

	if err := c.Layout().Resolve(); err != nil {
		return criterio.NewFieldErrors("form.fields", err)
	}
	return nil
}

func required(s string) error {
	if s == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// ValidateEndpoint checks that s is an absolute http or https URL.
func ValidateEndpoint(s string) error {
	if s == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func todayMode(mode string) error {
	switch mode {
	case TodayModeFixed, TodayModeLive:
		return nil
	default:
		return fmt.Errorf("must be %q or %q, got %q", TodayModeFixed, TodayModeLive, mode)
	}
}
