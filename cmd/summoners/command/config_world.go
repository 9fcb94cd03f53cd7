package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/storage"
	"github.com/pixil98/go-summoners/internal/world"
)

type WorldConfig struct {
	Templates   AssetConfig[*world.Template] `json:"templates"`
	SenseRange  float64                      `json:"sense_range"`
	ScanWorkers int                          `json:"scan_workers"`
	Lifestone   entity.Position              `json:"lifestone"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	el.Add(c.Templates.Validate("templates"))
	if c.SenseRange < 0 || c.SenseRange > entity.LandblockSize {
		el.Add(fmt.Errorf("sense_range must be between 0 and %.0f", entity.LandblockSize))
	}
	if c.ScanWorkers < 0 {
		el.Add(fmt.Errorf("scan_workers must not be negative"))
	}

	return el.Err()
}

func (c *WorldConfig) buildWorld() *world.World {
	var opts []world.WorldOpt
	if c.SenseRange > 0 {
		opts = append(opts, world.WithSenseRange(c.SenseRange))
	}
	if c.ScanWorkers > 0 {
		opts = append(opts, world.WithScanWorkers(c.ScanWorkers))
	}
	return world.NewWorld(opts...)
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
