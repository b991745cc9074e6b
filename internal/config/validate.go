package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate performs rule checks on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute http(s) URL (got %q)", c.Backend.BaseURL)
	}
	if !strings.HasPrefix(c.Backend.SummarizePath, "/") {
		return fmt.Errorf("backend.summarize_path must start with / (got %q)", c.Backend.SummarizePath)
	}

	if err := c.Web.validate(); err != nil {
		return fmt.Errorf("web: %w", err)
	}

	for _, r := range c.Email.ReviewRecipients {
		if !strings.Contains(r, "@") {
			return fmt.Errorf("email.review_recipients: %q is not an address", r)
		}
	}
	return nil
}

func (w *WebConfig) validate() error {
	if w.CSRFKey != "" {
		key, err := hex.DecodeString(w.CSRFKey)
		if err != nil || len(key) != 32 {
			return fmt.Errorf("csrf_key must be 64 hex characters")
		}
	} else if w.IsProduction() {
		return fmt.Errorf("csrf_key is required in production")
	}
	if _, err := time.LoadLocation(w.TimeZone); err != nil {
		return fmt.Errorf("time_zone: %w", err)
	}
	if w.SummarizeRate < 1 {
		return fmt.Errorf("summarize_rate must be >= 1 (got %d)", w.SummarizeRate)
	}
	return nil
}
