package telemetry

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/eddy/fluid"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the editor scene of a run: everything needed to rebuild
// the inputs of a solver, not its field contents.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	Tick int64 `json:"tick"`

	ForceFields []ForceFieldState `json:"force_fields"`
	Emitters    []EmitterState    `json:"emitters"`

	// Density image written next to the snapshot, relative to it
	DensityImage string `json:"density_image,omitempty"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ForceFieldState is the JSON form of a force field.
type ForceFieldState struct {
	ID         uint32  `json:"id"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Radius     float32 `json:"radius"`
	Force      float32 `json:"force"`
	Spin       float32 `json:"spin"`
	WindForce  float32 `json:"wind_force"`
	WindAngle  float32 `json:"wind_angle"`
	Pulse      float32 `json:"pulse"`
	Turbulence float32 `json:"turbulence"`
}

// EmitterState is the JSON form of an emitter.
type EmitterState struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// NewSnapshot captures a scene.
func NewSnapshot(seed int64, gridW, gridH int, tick int64, fields []fluid.ForceField, emitters []fluid.Emitter) *Snapshot {
	s := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        seed,
		GridWidth:   gridW,
		GridHeight:  gridH,
		Tick:        tick,
		ForceFields: make([]ForceFieldState, len(fields)),
		Emitters:    make([]EmitterState, len(emitters)),
	}
	for i, ff := range fields {
		s.ForceFields[i] = ForceFieldState(ff)
	}
	for i, e := range emitters {
		s.Emitters[i] = EmitterState(e)
	}
	return s
}

// Scene returns the solver inputs stored in the snapshot.
func (s *Snapshot) Scene() ([]fluid.ForceField, []fluid.Emitter) {
	fields := make([]fluid.ForceField, len(s.ForceFields))
	for i, ff := range s.ForceFields {
		fields[i] = fluid.ForceField(ff)
	}
	emitters := make([]fluid.Emitter, len(s.Emitters))
	for i, e := range s.Emitters {
		emitters[i] = fluid.Emitter(e)
	}
	return fields, emitters
}

// SnapshotName returns the file stem used for a snapshot.
func SnapshotName(tick int64, bookmark *Bookmark) string {
	name := fmt.Sprintf("snapshot_%d", tick)
	if bookmark != nil {
		sanitized := strings.ReplaceAll(string(bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", tick, sanitized)
	}
	return name
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, SnapshotName(snapshot.Tick, snapshot.Bookmark)+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// SaveSnapshotImage writes img next to the snapshot, records its name in
// s.DensityImage and saves the snapshot. A nil img saves the snapshot alone.
func SaveSnapshotImage(s *Snapshot, img image.Image, dir string) (string, error) {
	if img != nil {
		name := SnapshotName(s.Tick, s.Bookmark) + ".png"
		if err := WritePNG(filepath.Join(dir, name), img); err != nil {
			return "", err
		}
		s.DensityImage = name
	}
	return SaveSnapshot(s, dir)
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
