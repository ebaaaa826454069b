package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim           string
	Scale         int
	TPS           int
	Seed          int64
	StepsPerFrame int

	Width    int
	Height   int
	Capacity int
	Queue    string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:           "sandpile",
		Scale:         6,
		TPS:           60,
		Seed:          42,
		StepsPerFrame: 1,
		Width:         100,
		Height:        100,
		Capacity:      3,
		Queue:         "fifo",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.StepsPerFrame, "steps", c.StepsPerFrame, "grains dropped per tick")
	fs.IntVar(&c.Width, "w", c.Width, "grid width")
	fs.IntVar(&c.Height, "h", c.Height, "grid height")
	fs.IntVar(&c.Capacity, "capacity", c.Capacity, "largest stable grain count")
	fs.StringVar(&c.Queue, "queue", c.Queue, "topple queue discipline (fifo or lifo)")
}

// SimParams renders the simulation-specific settings in the string map form
// the sim registry factories accept.
func (c *Config) SimParams() map[string]string {
	return map[string]string{
		"w":        strconv.Itoa(c.Width),
		"h":        strconv.Itoa(c.Height),
		"capacity": strconv.Itoa(c.Capacity),
		"seed":     strconv.FormatInt(c.Seed, 10),
		"queue":    c.Queue,
	}
}
