package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default tuning invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	p := writeTuning(t, `
seed: 7
hunger:
  hungry: 10
  starving: 20
  death: 30
queen:
  command_radius: 0
`)
	tu, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tu.Seed != 7 || tu.Hunger.Hungry != 10 || tu.Hunger.Death != 30 {
		t.Fatalf("overrides not applied: %+v", tu)
	}
	if tu.Queen.CommandRadius != 0 {
		t.Fatalf("explicit zero radius should be kept, got %v", tu.Queen.CommandRadius)
	}
	if tu.FrameRateHz != Default().FrameRateHz || tu.World.TileSize != Default().World.TileSize {
		t.Fatalf("unset fields should keep defaults")
	}
	if fc := tu.ForageConfig(); fc.TileSize != tu.World.TileSize || fc.GatherRadius != tu.Forage.GatherRadius {
		t.Fatalf("unexpected forage config %+v", fc)
	}
	if gc := tu.GenConfig(); gc.Seed != 7 || gc.Width != tu.World.Width {
		t.Fatalf("unexpected gen config %+v", gc)
	}
}

func TestLoadRejectsBadThresholds(t *testing.T) {
	p := writeTuning(t, "hunger: {hungry: 50, starving: 40, death: 60}\n")
	if _, err := Load(p); !errors.Is(err, ErrInvalidThresholds) {
		t.Fatalf("expected ErrInvalidThresholds, got %v", err)
	}
}

func TestLoadBadYAML(t *testing.T) {
	p := writeTuning(t, "seed: [unterminated\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	tu, err := LoadOrDefault("")
	if err != nil || tu.Colony.Size != Default().Colony.Size {
		t.Fatalf("empty path should give defaults: %+v %v", tu, err)
	}
	if _, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file should error")
	}
}
