package sandpile

import "image/color"

// Palette returns one color per display level: 0..capacity, then a final
// entry for cells caught over capacity.
func (p *Sandpile) Palette() []color.RGBA {
	return buildPalette(p.cfg.Capacity)
}

func buildPalette(capacity int) []color.RGBA {
	levels := displayLevels(capacity)
	palette := make([]color.RGBA, levels+1)
	empty := color.NRGBA{R: 20, G: 16, B: 12, A: 255}
	full := color.NRGBA{R: 235, G: 196, B: 120, A: 255}
	for i := 0; i < levels; i++ {
		w := 1.0
		if levels > 1 {
			w = float64(i) / float64(levels-1)
		}
		palette[i] = toRGBA(blendColors(empty, full, w))
	}
	palette[levels] = color.RGBA{R: 220, G: 60, B: 40, A: 255}
	return palette
}

// displayLevels is the number of stable grain counts that fit in a uint8
// display value with one slot left for the overflow color.
func displayLevels(capacity int) int {
	levels := capacity + 1
	if levels > 255 {
		levels = 255
	}
	return levels
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	br, bg, bb, ba := float64(base.R), float64(base.G), float64(base.B), float64(base.A)
	or, og, ob, oa := float64(overlay.R), float64(overlay.G), float64(overlay.B), float64(overlay.A)
	w := overlayWeight
	inv := 1 - w
	return color.NRGBA{
		R: uint8(br*inv + or*w + 0.5),
		G: uint8(bg*inv + og*w + 0.5),
		B: uint8(bb*inv + ob*w + 0.5),
		A: uint8(ba*inv + oa*w + 0.5),
	}
}

func (p *Sandpile) rebuildDisplay() {
	levels := displayLevels(p.cfg.Capacity)
	for i, grains := range p.sim.Grid.Snapshot() {
		switch {
		case grains < 0 || grains > p.cfg.Capacity:
			p.display[i] = uint8(levels)
		case grains >= levels:
			p.display[i] = uint8(levels - 1)
		default:
			p.display[i] = uint8(grains)
		}
	}
}
