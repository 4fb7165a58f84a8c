// Shader debug tool - runs the config scenario and renders the density view
// through the display shader to a PNG file for inspection.
//
// Usage: go run ./cmd/shaderdebug -shader renderer/shaders/display.fs -ticks 300 -out debug.png
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/eddy/config"
	"github.com/pthm-cable/eddy/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	shaderPath := flag.String("shader", "", "Path to fragment shader (empty = embedded)")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	ticks := flag.Int("ticks", 300, "Solver ticks to run before capturing")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Shader Debug")
	defer rl.CloseWindow()

	g, err := game.NewGameWithOptions(game.Options{
		StatsWindowSec: cfg.Telemetry.StatsWindow,
		ShaderPath:     *shaderPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer g.Unload()

	for int(g.Tick()) < *ticks {
		g.UpdateHeadless()
	}

	if err := g.WriteDensityPNG(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to export image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Density rendered to: %s (tick %d)\n", *outPath, g.Tick())
}
