package game

import (
	"math"

	"github.com/crazy3lf/colorconv"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// advanceHue rotates the dye hue by HueRate over dt simulated seconds.
func (g *Game) advanceHue(dt float64) {
	if g.cfg.Emitter.HueRate == 0 {
		return
	}
	g.setDye(math.Mod(g.hue+g.cfg.Emitter.HueRate*dt, 360))
}

// setDye sets the hue and refreshes the dye colour.
func (g *Game) setDye(hue float64) {
	g.hue = hue
	g.dye = hueColor(hue)
}

// hueColor returns a fully saturated colour in [0,1] per channel.
func hueColor(hue float64) [3]float32 {
	r, gr, b, err := colorconv.HSVToRGB(hue, 1, 1)
	if err != nil {
		return [3]float32{1, 1, 1}
	}
	return [3]float32{float32(r) / 255, float32(gr) / 255, float32(b) / 255}
}

func (g *Game) dyeSwatch() rl.Color {
	return rl.Color{
		R: uint8(g.dye[0] * 255),
		G: uint8(g.dye[1] * 255),
		B: uint8(g.dye[2] * 255),
		A: 255,
	}
}
