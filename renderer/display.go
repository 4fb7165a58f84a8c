package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed shaders/display.fs
var displayFS string

// DisplayShader presents a solver view with exposure and gamma applied.
type DisplayShader struct {
	program  *Program
	Exposure float32
	Gamma    float32
}

// NewDisplayShader compiles the display shader. A non-empty path
// overrides the embedded source.
func NewDisplayShader(path string, cache *UniformCache) (*DisplayShader, error) {
	p, err := NewProgram("display", displayFS, path, cache)
	if err != nil {
		return nil, err
	}
	return &DisplayShader{program: p, Exposure: 1, Gamma: 1}, nil
}

// Draw draws the src rect of surface into dst through the shader.
// Uniforms are re-sent on every draw.
func (d *DisplayShader) Draw(surface *TextureSurface, src, dst rl.Rectangle) {
	d.program.SetFloat("exposure", d.Exposure)
	d.program.SetFloat("gamma", d.Gamma)
	d.program.Begin()
	surface.Draw(src, dst)
	d.program.End()
}

// Reload recompiles the shader from its source.
func (d *DisplayShader) Reload() error {
	return d.program.Reload()
}

// Unload releases the shader.
func (d *DisplayShader) Unload() {
	d.program.Unload()
}
