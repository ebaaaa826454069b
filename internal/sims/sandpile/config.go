package sandpile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"sandpile/internal/core"
)

// Discipline selects the order pending topples are processed in.
type Discipline string

const (
	// FIFO resolves the cascade breadth-first.
	FIFO Discipline = "fifo"
	// LIFO resolves the cascade depth-first using a stack.
	LIFO Discipline = "lifo"
)

// Config controls the sandpile dimensions, capacity and seeding.
type Config struct {
	Width    int        `yaml:"width"`
	Height   int        `yaml:"height"`
	Capacity int        `yaml:"capacity"`
	Seed     int64      `yaml:"seed"`
	Queue    Discipline `yaml:"queue"`

	// CascadeLimit caps topples per avalanche; 0 derives a bound from the
	// grid dimensions.
	CascadeLimit int `yaml:"cascade_limit"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:    100,
		Height:   100,
		Capacity: 3,
		Seed:     42,
		Queue:    FIFO,
	}
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var err error
	if c.Width <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: width %d must be positive", core.ErrConfig, c.Width))
	}
	if c.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: height %d must be positive", core.ErrConfig, c.Height))
	}
	if c.Capacity < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: capacity %d must not be negative", core.ErrConfig, c.Capacity))
	}
	if c.Queue != FIFO && c.Queue != LIFO {
		err = multierr.Append(err, fmt.Errorf("%w: queue %q must be %q or %q", core.ErrConfig, c.Queue, FIFO, LIFO))
	}
	if c.CascadeLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: cascade_limit %d must not be negative", core.ErrConfig, c.CascadeLimit))
	}
	return err
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unknown keys are ignored; malformed values are reported together.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	var err error
	atoi := func(key string, dst *int) {
		v, ok := cfg[key]
		if !ok {
			return
		}
		parsed, perr := strconv.Atoi(strings.TrimSpace(v))
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: %s=%q is not an integer", core.ErrConfig, key, v))
			return
		}
		*dst = parsed
	}
	atoi("w", &c.Width)
	atoi("h", &c.Height)
	atoi("capacity", &c.Capacity)
	atoi("cascade_limit", &c.CascadeLimit)
	if v, ok := cfg["seed"]; ok {
		parsed, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: seed=%q is not an integer", core.ErrConfig, v))
		} else {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["queue"]; ok {
		c.Queue = Discipline(strings.ToLower(strings.TrimSpace(v)))
	}
	if err != nil {
		return c, err
	}
	return c, c.Validate()
}

// LoadFile reads a YAML config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("%w: parsing %s: %v", core.ErrConfig, path, err)
	}
	c.Queue = Discipline(strings.ToLower(string(c.Queue)))
	return c, c.Validate()
}

func (c Config) cascadeLimit() int {
	if c.CascadeLimit > 0 {
		return c.CascadeLimit
	}
	return defaultCascadeLimit(c.Width, c.Height)
}

// defaultCascadeLimit is far above the largest avalanche a single grain can
// trigger on a stable w*h grid.
func defaultCascadeLimit(w, h int) int {
	return 4 * w * h * (w + h + 4)
}
