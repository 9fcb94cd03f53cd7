package command

import (
	"fmt"
	"net"

	"github.com/pixil98/go-summoners/internal/observe"
)

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `json:"addr"`
}

func (c *MetricsConfig) validate() error {
	if c.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("parsing metrics addr: %w", err)
	}
	return nil
}

func (c *MetricsConfig) buildMetricsServer() (*observe.MetricsServer, error) {
	shutdown, err := observe.InitProvider()
	if err != nil {
		return nil, fmt.Errorf("initializing meter provider: %w", err)
	}
	return observe.NewMetricsServer(c.Addr, shutdown), nil
}
