//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"time"

	"sandpile/internal/core"
	"sandpile/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	palette []color.RGBA

	scale         int
	stepsPerFrame int
	paused        bool
	tickOnce      bool
	seed          int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config) *Game {
	size := sim.Size()
	palette := render.BinaryPalette(color.White, color.Black)
	if p, ok := sim.(core.PaletteProvider); ok {
		palette = p.Palette()
	}
	steps := cfg.StepsPerFrame
	if steps <= 0 {
		steps = 1
	}
	return &Game{
		sim:           sim,
		painter:       render.NewGridPainter(size.W, size.H),
		palette:       palette,
		scale:         cfg.Scale,
		stepsPerFrame: steps,
		seed:          cfg.Seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	if (!g.paused) || g.tickOnce {
		steps := g.stepsPerFrame
		if g.paused {
			steps = 1
		}
		for i := 0; i < steps; i++ {
			g.sim.Step()
		}
		g.tickOnce = false
	}
	if f, ok := g.sim.(core.Failer); ok {
		if err := f.Err(); err != nil {
			return fmt.Errorf("%s halted: %w", g.sim.Name(), err)
		}
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}
