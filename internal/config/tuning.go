// Package config loads simulation tuning from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/antcolony/internal/brain"
	"github.com/talgya/antcolony/internal/forage"
	"github.com/talgya/antcolony/internal/world"
)

// ErrInvalidThresholds is returned when hunger thresholds are out of order.
var ErrInvalidThresholds = errors.New("hunger thresholds must satisfy hungry < starving < death")

type Tuning struct {
	FrameRateHz      int   `yaml:"frame_rate_hz"`
	Seed             int64 `yaml:"seed"`
	SaveEverySeconds int   `yaml:"save_every_seconds"`

	World  WorldTuning      `yaml:"world"`
	Hunger brain.Thresholds `yaml:"hunger"`
	Forage ForageTuning     `yaml:"forage"`
	Queen  QueenTuning      `yaml:"queen"`
	Trails TrailTuning      `yaml:"trails"`
	Colony ColonyTuning     `yaml:"colony"`
}

type WorldTuning struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	TileSize        float64 `yaml:"tile_size"`
	WaterLevel      float64 `yaml:"water_level"`
	MudLevel        float64 `yaml:"mud_level"`
	RoughLevel      float64 `yaml:"rough_level"`
	SlipperyLevel   float64 `yaml:"slippery_level"`
	ResourceDensity float64 `yaml:"resource_density"`
	Nests           int     `yaml:"nests"`
}

type ForageTuning struct {
	GatherRadius  float64 `yaml:"gather_radius"`
	CollectRange  float64 `yaml:"collect_range"`
	CarryCapacity int     `yaml:"carry_capacity"`
}

type QueenTuning struct {
	CommandRadius float64 `yaml:"command_radius"`
}

type TrailTuning struct {
	DecayPerSecond  float64 `yaml:"decay_per_second"`
	MinStrength     float64 `yaml:"min_strength"`
	DepositStrength float64 `yaml:"deposit_strength"`
	SenseRadius     float64 `yaml:"sense_radius"`
}

type ColonyTuning struct {
	Size int `yaml:"size"`
}

// Default returns the built-in tuning.
func Default() Tuning {
	gen := world.DefaultGenConfig()
	return Tuning{
		FrameRateHz:      30,
		Seed:             0,
		SaveEverySeconds: 300,
		World: WorldTuning{
			Width:           gen.Width,
			Height:          gen.Height,
			TileSize:        gen.TileSize,
			WaterLevel:      gen.WaterLevel,
			MudLevel:        gen.MudLevel,
			RoughLevel:      gen.RoughLevel,
			SlipperyLevel:   gen.SlipperyLevel,
			ResourceDensity: gen.ResourceDensity,
			Nests:           gen.Nests,
		},
		Hunger: brain.DefaultThresholds(),
		Forage: ForageTuning{
			GatherRadius:  forage.DefaultGatherRadius,
			CollectRange:  forage.DefaultCollectRange,
			CarryCapacity: 5,
		},
		Queen: QueenTuning{CommandRadius: 400},
		Trails: TrailTuning{
			DecayPerSecond:  0.5,
			MinStrength:     0.5,
			DepositStrength: 10,
			SenseRadius:     96,
		},
		Colony: ColonyTuning{Size: 40},
	}
}

// Load reads a tuning file over the defaults. Fields missing from the
// file keep their default values.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// LoadOrDefault loads path when it is non-empty, otherwise returns defaults.
func LoadOrDefault(path string) (Tuning, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks cross-field constraints.
func (t Tuning) Validate() error {
	h := t.Hunger
	if !(h.Hungry < h.Starving && h.Starving < h.Death) {
		return fmt.Errorf("%w (got %d/%d/%d)", ErrInvalidThresholds, h.Hungry, h.Starving, h.Death)
	}
	if t.World.TileSize <= 0 {
		return fmt.Errorf("world.tile_size must be positive (got %v)", t.World.TileSize)
	}
	if t.FrameRateHz <= 0 {
		return fmt.Errorf("frame_rate_hz must be positive (got %d)", t.FrameRateHz)
	}
	if t.Forage.CarryCapacity <= 0 {
		return fmt.Errorf("forage.carry_capacity must be positive (got %d)", t.Forage.CarryCapacity)
	}
	return nil
}

// GenConfig converts world tuning into generator parameters.
func (t Tuning) GenConfig() world.GenConfig {
	return world.GenConfig{
		Width:           t.World.Width,
		Height:          t.World.Height,
		TileSize:        t.World.TileSize,
		Seed:            t.Seed,
		WaterLevel:      t.World.WaterLevel,
		MudLevel:        t.World.MudLevel,
		RoughLevel:      t.World.RoughLevel,
		SlipperyLevel:   t.World.SlipperyLevel,
		ResourceDensity: t.World.ResourceDensity,
		Nests:           t.World.Nests,
	}
}

// ForageConfig converts forage tuning into gatherer sizing.
func (t Tuning) ForageConfig() forage.Config {
	return forage.Config{
		GatherRadius: t.Forage.GatherRadius,
		TileSize:     t.World.TileSize,
		CollectRange: t.Forage.CollectRange,
	}
}
