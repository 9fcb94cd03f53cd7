package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-summoners/internal/settings"
	"github.com/pixil98/go-summoners/internal/storage"
)

// SettingsConfig locates the mod's settings document.
type SettingsConfig struct {
	Path       string `json:"path"`
	Retries    int    `json:"retries"`
	RetryDelay string `json:"retry_delay"`
}

func (c *SettingsConfig) validate() error {
	el := errors.NewErrorList()

	if c.Path == "" {
		el.Add(fmt.Errorf("settings path is required"))
	}
	if c.Retries < 0 {
		el.Add(fmt.Errorf("retries must not be negative"))
	}
	if c.RetryDelay != "" {
		if _, err := time.ParseDuration(c.RetryDelay); err != nil {
			el.Add(fmt.Errorf("parsing retry_delay: %w", err))
		}
	}

	return el.Err()
}

func (c *SettingsConfig) buildDocument() *storage.Document[*settings.Settings] {
	var opts []storage.DocumentOpt
	if c.Retries > 0 {
		opts = append(opts, storage.WithRetries(c.Retries))
	}
	if d, err := time.ParseDuration(c.RetryDelay); err == nil {
		opts = append(opts, storage.WithRetryDelay(d))
	}
	return storage.NewDocument(c.Path, settings.Defaults, opts...)
}
