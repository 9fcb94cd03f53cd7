package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"golang.org/x/time/rate"

	"github.com/pixil98/go-summoners/internal/messaging"
)

type NatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
	// InProcess runs the server without a network listener.
	InProcess bool `json:"in_process"`

	BroadcastRate  float64 `json:"broadcast_rate"`
	BroadcastBurst int     `json:"broadcast_burst"`
	// WrapWidth wraps chat text for terminal clients. Zero disables it.
	WrapWidth int `json:"wrap_width"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		_, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}
	if n.BroadcastRate < 0 {
		el.Add(fmt.Errorf("broadcast_rate must not be negative"))
	}
	if n.BroadcastBurst < 0 {
		el.Add(fmt.Errorf("broadcast_burst must not be negative"))
	}
	if n.WrapWidth < 0 {
		el.Add(fmt.Errorf("wrap_width must not be negative"))
	}

	return el.Err()
}

func (c *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}
	if c.InProcess {
		opts = append(opts, messaging.WithInProcess())
	}

	s, err := messaging.NewNatsServer(opts...)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (c *NatsConfig) buildPublisher(bus messaging.Bus) *messaging.NatsPublisher {
	opts := []messaging.PublisherOpt{messaging.WithWrapWidth(c.WrapWidth)}
	if c.BroadcastRate > 0 {
		burst := c.BroadcastBurst
		if burst == 0 {
			burst = messaging.DefaultBroadcastBurst
		}
		opts = append(opts, messaging.WithBroadcastLimit(rate.Limit(c.BroadcastRate), burst))
	}
	return messaging.NewNatsPublisher(bus, opts...)
}
