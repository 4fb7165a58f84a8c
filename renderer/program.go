package renderer

import (
	"errors"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrShaderCompile is returned when raylib rejects a shader.
var ErrShaderCompile = errors.New("renderer: shader failed to compile")

// uniformKey identifies a uniform of one compiled program.
type uniformKey struct {
	program uint32
	name    string
}

// UniformCache memoizes uniform locations by (program, name). Programs
// drop their entries when reloaded, since a new program ID gets new
// locations.
type UniformCache struct {
	locs map[uniformKey]int32
}

// NewUniformCache creates an empty cache.
func NewUniformCache() *UniformCache {
	return &UniformCache{locs: make(map[uniformKey]int32)}
}

// Location returns the location of name in shader, querying raylib once.
func (c *UniformCache) Location(shader rl.Shader, name string) int32 {
	key := uniformKey{program: shader.ID, name: name}
	if loc, ok := c.locs[key]; ok {
		return loc
	}
	loc := rl.GetShaderLocation(shader, name)
	c.locs[key] = loc
	return loc
}

// Drop forgets every location cached for program.
func (c *UniformCache) Drop(program uint32) {
	for key := range c.locs {
		if key.program == program {
			delete(c.locs, key)
		}
	}
}

// Len returns the number of cached locations.
func (c *UniformCache) Len() int {
	return len(c.locs)
}

// Program is a fragment shader over raylib's default vertex stage.
// Its source is either embedded or read from a file, in which case
// Reload picks up edits.
type Program struct {
	name   string
	source string // embedded fragment source
	path   string // file override, read on every load
	shader rl.Shader
	cache  *UniformCache
}

// NewProgram compiles a program. When path is non-empty the fragment
// source is read from it instead of source.
func NewProgram(name, source, path string, cache *UniformCache) (*Program, error) {
	p := &Program{name: name, source: source, path: path, cache: cache}
	shader, err := p.compile()
	if err != nil {
		return nil, err
	}
	p.shader = shader
	return p, nil
}

func (p *Program) compile() (rl.Shader, error) {
	fs := p.source
	if p.path != "" {
		data, err := os.ReadFile(p.path)
		if err != nil {
			return rl.Shader{}, fmt.Errorf("reading %s shader: %w", p.name, err)
		}
		fs = string(data)
	}
	shader := rl.LoadShaderFromMemory("", fs)
	if !rl.IsShaderValid(shader) {
		return rl.Shader{}, fmt.Errorf("%w: %s", ErrShaderCompile, p.name)
	}
	return shader, nil
}

// Reload recompiles the program and drops its cached uniform locations.
// On failure the previous shader stays active.
func (p *Program) Reload() error {
	shader, err := p.compile()
	if err != nil {
		return err
	}
	p.cache.Drop(p.shader.ID)
	rl.UnloadShader(p.shader)
	p.shader = shader
	return nil
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	rl.SetShaderValue(p.shader, p.cache.Location(p.shader, name), []float32{v}, rl.ShaderUniformFloat)
}

// SetVec2 sets a vec2 uniform.
func (p *Program) SetVec2(name string, x, y float32) {
	rl.SetShaderValue(p.shader, p.cache.Location(p.shader, name), []float32{x, y}, rl.ShaderUniformVec2)
}

// Begin binds the program for subsequent draws.
func (p *Program) Begin() {
	rl.BeginShaderMode(p.shader)
}

// End restores the default shader.
func (p *Program) End() {
	rl.EndShaderMode()
}

// Unload releases the shader and its cached locations.
func (p *Program) Unload() {
	p.cache.Drop(p.shader.ID)
	rl.UnloadShader(p.shader)
}
