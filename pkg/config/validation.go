package config

import (
	"fmt"

	"load-monitor/pkg/stream"
)

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("%s is required", KeyServerURL)
	}
	endpoint, err := stream.DeriveEndpoint(c.ServerURL)
	if err != nil {
		return fmt.Errorf("%s: %w", KeyServerURL, err)
	}
	c.Endpoint = endpoint

	positive := []struct {
		key   string
		value int
	}{
		{KeyMaxPoints, c.Stream.MaxPoints},
		{KeyRetryDelayMS, c.Stream.RetryDelayMS},
		{KeyDialTimeoutSeconds, c.Stream.DialTimeoutSeconds},
		{KeyStatusIntervalSeconds, c.UI.StatusIntervalSeconds},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.key, p.value)
		}
	}

	switch c.UI.Mode {
	case UIModeTUI:
		if c.UI.LogFile == "" {
			return fmt.Errorf("%s is required in %s mode", KeyLogFile, UIModeTUI)
		}
	case UIModeQuiet:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", KeyUIMode, UIModeTUI, UIModeQuiet, c.UI.Mode)
	}
	return nil
}
