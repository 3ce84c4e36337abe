// Package forage implements the gathering sub-state: search a radius for
// resources, walk to the nearest, pick it up, and head home when full.
package forage

import (
	"log/slog"

	"github.com/talgya/antcolony/internal/state"
	"github.com/talgya/antcolony/internal/world"
)

// Default radii.
const (
	DefaultGatherRadius = 10   // Tiles
	DefaultCollectRange = 10.0 // Pixels; independent of the gather radius
)

// Mover is the ant's movement capability.
type Mover interface {
	Position() world.Point
	MoveTo(x, y float64)
}

// Carrier is the ant's load manager.
type Carrier interface {
	CurrentLoad() int
	AtMaxCapacity() bool
	Add(res world.Resource) bool
	StartDropOff(x, y float64)
}

// Registry is the shared world resource store.
type Registry interface {
	List() []world.Resource
	Get(id world.ResourceID) (world.Resource, bool)
	Remove(id world.ResourceID) bool
}

// DropPoints locates the nearest place to unload.
type DropPoints interface {
	NearestDropPoint(from world.Point) (world.Point, bool)
}

// StateSetter is the slice of the state machine this package drives.
type StateSetter interface {
	SetPrimary(p state.Primary) bool
}

// Target is the chosen resource with its position cached at selection time.
type Target struct {
	ID   world.ResourceID   `json:"id"`
	X    float64            `json:"x"`
	Y    float64            `json:"y"`
	Type world.ResourceType `json:"type"`
}

// Config sizes a gatherer.
type Config struct {
	GatherRadius float64 // Tiles
	TileSize     float64 // Pixels per tile
	CollectRange float64 // Pixels
}

// DefaultConfig returns the standard gatherer sizing.
func DefaultConfig() Config {
	return Config{
		GatherRadius: DefaultGatherRadius,
		TileSize:     world.DefaultTileSize,
		CollectRange: DefaultCollectRange,
	}
}

// Gatherer is one ant's foraging sub-state.
type Gatherer struct {
	mover    Mover
	carrier  Carrier
	registry Registry
	drops    DropPoints
	machine  StateSetter

	active       bool
	gatherRadius float64
	pixelRadius  float64
	collectRange float64
	target       *Target
	debug        bool
}

// New wires a gatherer to its ant and the shared world. drops may be nil,
// in which case ants unload where they stand.
func New(cfg Config, mover Mover, carrier Carrier, registry Registry, drops DropPoints, machine StateSetter) *Gatherer {
	if cfg.TileSize <= 0 {
		cfg.TileSize = world.DefaultTileSize
	}
	return &Gatherer{
		mover:        mover,
		carrier:      carrier,
		registry:     registry,
		drops:        drops,
		machine:      machine,
		gatherRadius: cfg.GatherRadius,
		pixelRadius:  cfg.GatherRadius * cfg.TileSize,
		collectRange: cfg.CollectRange,
	}
}

// Enter activates foraging.
func (g *Gatherer) Enter() {
	g.active = true
	g.machine.SetPrimary(state.Gathering)
	g.logf("forage entered")
}

// Exit deactivates foraging.
func (g *Gatherer) Exit() bool {
	g.active = false
	g.logf("forage exited")
	return true
}

// Active reports whether foraging is running.
func (g *Gatherer) Active() bool { return g.active }

// Target returns the current target, if any.
func (g *Gatherer) Target() (Target, bool) {
	if g.target == nil {
		return Target{}, false
	}
	return *g.target, true
}

// SearchForResources returns every resource within the pixel radius and
// targets the nearest one. Ties go to the lowest ID.
func (g *Gatherer) SearchForResources() []world.Resource {
	pos := g.mover.Position()

	var found []world.Resource
	bestDist := -1.0
	var best world.Resource
	for _, res := range g.registry.List() {
		d := world.Distance(pos, res.Pos)
		if g.pixelRadius < 0 || d > g.pixelRadius {
			continue
		}
		found = append(found, res)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = res
		}
	}

	if len(found) == 0 {
		g.target = nil
		g.logf("forage search found nothing", "radius", g.pixelRadius)
		return nil
	}

	g.target = &Target{ID: best.ID, X: best.Pos.X, Y: best.Pos.Y, Type: best.Type}
	g.logf("forage target chosen", "resource", best.ID, "distance", bestDist, "candidates", len(found))
	return found
}

// MoveToResource asks the ant to walk to (x, y).
func (g *Gatherer) MoveToResource(x, y float64) {
	g.mover.MoveTo(x, y)
}

// AttemptResourceCollection picks up the target. A vanished target is
// dropped so the next frame searches again. If the carrier refuses the
// item, it stays in the world and stays targeted.
func (g *Gatherer) AttemptResourceCollection() bool {
	if g.target == nil {
		return false
	}
	if g.carrier.AtMaxCapacity() {
		return false
	}
	res, ok := g.registry.Get(g.target.ID)
	if !ok {
		g.logf("forage target vanished", "resource", g.target.ID)
		g.target = nil
		return false
	}
	if !g.carrier.Add(res) {
		return false
	}
	g.registry.Remove(res.ID)
	g.target = nil
	g.logf("resource collected", "resource", res.ID, "load", g.carrier.CurrentLoad())
	return true
}

// UpdateTargetMovement collects the target when in range and otherwise
// keeps walking toward it.
func (g *Gatherer) UpdateTargetMovement() {
	if g.target == nil {
		return
	}
	pos := g.mover.Position()
	tp := world.Point{X: g.target.X, Y: g.target.Y}
	if world.Distance(pos, tp) <= g.collectRange {
		g.AttemptResourceCollection()
		return
	}
	g.MoveToResource(tp.X, tp.Y)
}

// Update runs one frame of foraging: head home when full, re-search when
// the target is missing or stale, then move or collect.
func (g *Gatherer) Update() {
	if !g.active {
		return
	}
	if g.IsAtMaxCapacity() {
		g.TransitionToDropOff()
		return
	}
	if g.target != nil {
		if _, ok := g.registry.Get(g.target.ID); !ok {
			g.target = nil
		}
	}
	if g.target == nil {
		g.SearchForResources()
	}
	g.UpdateTargetMovement()
	if g.IsAtMaxCapacity() {
		g.TransitionToDropOff()
	}
}

// IsAtMaxCapacity reports whether the carrier is full.
func (g *Gatherer) IsAtMaxCapacity() bool {
	return g.carrier.AtMaxCapacity()
}

// TransitionToDropOff hands the ant over to the drop-off state.
func (g *Gatherer) TransitionToDropOff() {
	g.machine.SetPrimary(state.DroppingOff)

	pos := g.mover.Position()
	dest := pos
	if g.drops != nil {
		if p, ok := g.drops.NearestDropPoint(pos); ok {
			dest = p
		}
	}
	g.carrier.StartDropOff(dest.X, dest.Y)
	g.active = false
	g.logf("forage full, dropping off", "x", dest.X, "y", dest.Y, "load", g.carrier.CurrentLoad())
}

// SetDebugEnabled toggles diagnostic logging.
func (g *Gatherer) SetDebugEnabled(on bool) { g.debug = on }

func (g *Gatherer) logf(msg string, args ...any) {
	if g.debug {
		slog.Debug(msg, args...)
	}
}

// DebugInfo is a diagnostic snapshot.
type DebugInfo struct {
	Active       bool    `json:"active"`
	HasTarget    bool    `json:"has_target"`
	Target       *Target `json:"target,omitempty"`
	GatherRadius float64 `json:"gather_radius"`
	PixelRadius  float64 `json:"pixel_radius"`
	CollectRange float64 `json:"collect_range"`
}

// DebugInfo returns a snapshot for display.
func (g *Gatherer) DebugInfo() DebugInfo {
	info := DebugInfo{
		Active:       g.active,
		HasTarget:    g.target != nil,
		GatherRadius: g.gatherRadius,
		PixelRadius:  g.pixelRadius,
		CollectRange: g.collectRange,
	}
	if g.target != nil {
		t := *g.target
		info.Target = &t
	}
	return info
}
