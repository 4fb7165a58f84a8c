package telemetry

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/eddy/fluid"
)

func testScene() ([]fluid.ForceField, []fluid.Emitter) {
	fields := []fluid.ForceField{
		{ID: 1, X: 0.25, Y: 0.5, Radius: 0.1, Force: 2, Spin: 6, Pulse: 0.5},
		{ID: 2, X: 0.75, Y: 0.5, Radius: 0.05, WindForce: 3, WindAngle: 1.5, Turbulence: 4},
	}
	emitters := []fluid.Emitter{{X: 0.5, Y: 0.1}}
	return fields, emitters
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	fields, emitters := testScene()

	snapshot := NewSnapshot(42, 320, 180, 1000, fields, emitters)
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_1000.json" {
		t.Errorf("path = %s, want snapshot_1000.json", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Seed != 42 || loaded.GridWidth != 320 || loaded.GridHeight != 180 || loaded.Tick != 1000 {
		t.Errorf("header mismatch: %+v", loaded)
	}

	gotFields, gotEmitters := loaded.Scene()
	if len(gotFields) != len(fields) || len(gotEmitters) != len(emitters) {
		t.Fatalf("scene sizes = %d/%d, want %d/%d", len(gotFields), len(gotEmitters), len(fields), len(emitters))
	}
	for i := range fields {
		if gotFields[i] != fields[i] {
			t.Errorf("field %d = %+v, want %+v", i, gotFields[i], fields[i])
		}
	}
	if gotEmitters[0] != emitters[0] {
		t.Errorf("emitter = %+v, want %+v", gotEmitters[0], emitters[0])
	}
}

func TestSnapshotJSONKeys(t *testing.T) {
	fields, emitters := testScene()
	data, err := json.Marshal(NewSnapshot(1, 64, 64, 0, fields, emitters))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, key := range []string{`"force_fields"`, `"wind_angle"`, `"emitters"`, `"grid_width"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("snapshot JSON missing %s", key)
		}
	}
	if strings.Contains(string(data), `"bookmark"`) {
		t.Error("nil bookmark should be omitted")
	}
}

func TestLoadSnapshotVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected error for unknown snapshot version")
	}
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSnapshotName(t *testing.T) {
	if got := SnapshotName(12, nil); got != "snapshot_12" {
		t.Errorf("SnapshotName(12, nil) = %q", got)
	}
	bm := &Bookmark{Type: BookmarkEnergySpike, Tick: 12}
	if got := SnapshotName(12, bm); got != "snapshot_12_energy_spike" {
		t.Errorf("SnapshotName with bookmark = %q", got)
	}
}

func TestOutputManager_WriteSnapshotWithImage(t *testing.T) {
	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	fields, emitters := testScene()
	snap := NewSnapshot(7, 4, 4, 50, fields, emitters)
	snap.Bookmark = &Bookmark{Type: BookmarkSettled, Tick: 50}

	path, err := om.WriteSnapshot(snap, img)
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.DensityImage != "snapshot_50_settled.png" {
		t.Errorf("DensityImage = %q", loaded.DensityImage)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), loaded.DensityImage)); err != nil {
		t.Errorf("density image not written: %v", err)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkSettled {
		t.Errorf("bookmark = %+v", loaded.Bookmark)
	}
}
