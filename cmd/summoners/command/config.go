package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string         `json:"tick_interval"`
	Nats         NatsConfig     `json:"nats"`
	Settings     SettingsConfig `json:"settings"`
	World        WorldConfig    `json:"world"`
	Metrics      MetricsConfig  `json:"metrics"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d < 10*time.Millisecond {
			el.Add(fmt.Errorf("tick_interval must be at least 10ms"))
		}
	}

	el.Add(c.Nats.validate())
	el.Add(c.Settings.validate())
	el.Add(c.World.validate())
	el.Add(c.Metrics.validate())

	return el.Err()
}

func (c *Config) tickLength() (time.Duration, bool) {
	if c.TickInterval == "" {
		return 0, false
	}
	d, err := time.ParseDuration(c.TickInterval)
	return d, err == nil
}
