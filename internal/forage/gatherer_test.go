package forage

import (
	"testing"

	"github.com/talgya/antcolony/internal/state"
	"github.com/talgya/antcolony/internal/world"
)

type fakeAnt struct {
	pos      world.Point
	moves    []world.Point
	items    []world.Resource
	capacity int
	refuse   bool
	dropTo   *world.Point
}

func (f *fakeAnt) Position() world.Point { return f.pos }
func (f *fakeAnt) MoveTo(x, y float64)   { f.moves = append(f.moves, world.Point{X: x, Y: y}) }
func (f *fakeAnt) CurrentLoad() int      { return len(f.items) }
func (f *fakeAnt) AtMaxCapacity() bool   { return len(f.items) >= f.capacity }
func (f *fakeAnt) StartDropOff(x, y float64) {
	f.dropTo = &world.Point{X: x, Y: y}
}
func (f *fakeAnt) Add(res world.Resource) bool {
	if f.refuse || f.AtMaxCapacity() {
		return false
	}
	f.items = append(f.items, res)
	return true
}

type fixedDrops struct{ p world.Point }

func (d fixedDrops) NearestDropPoint(world.Point) (world.Point, bool) { return d.p, true }

func setup(capacity int) (*Gatherer, *fakeAnt, *world.Registry, *state.Machine) {
	ant := &fakeAnt{capacity: capacity}
	reg := world.NewRegistry()
	m := state.New()
	g := New(Config{GatherRadius: 10, TileSize: 32, CollectRange: 10}, ant, ant, reg, fixedDrops{world.Point{X: -50, Y: -50}}, m)
	return g, ant, reg, m
}

func TestEnterExit(t *testing.T) {
	g, _, _, m := setup(5)
	g.Enter()
	if !g.Active() || m.Current() != state.Gathering {
		t.Fatalf("enter should activate and set gathering, got %s", m)
	}
	if !g.Exit() || g.Active() {
		t.Fatalf("exit should deactivate")
	}
}

func TestForagingRoundTrip(t *testing.T) {
	g, ant, reg, _ := setup(5)
	near := reg.Add(world.ResourceFood, world.Point{X: 100, Y: 0})
	reg.Add(world.ResourceTwig, world.Point{X: 1000, Y: 1000})

	found := g.SearchForResources()
	if len(found) != 1 || found[0].ID != near {
		t.Fatalf("expected only the near resource, got %+v", found)
	}
	tgt, ok := g.Target()
	if !ok || tgt.ID != near || tgt.X != 100 {
		t.Fatalf("unexpected target %+v", tgt)
	}

	before := ant.CurrentLoad()
	if !g.AttemptResourceCollection() {
		t.Fatalf("collection failed")
	}
	if ant.CurrentLoad() != before+1 {
		t.Fatalf("load should grow by one, got %d", ant.CurrentLoad())
	}
	if _, ok := reg.Get(near); ok {
		t.Fatalf("collected resource still registered")
	}
	if _, ok := g.Target(); ok {
		t.Fatalf("target should clear after collection")
	}
	if reg.Len() != 1 {
		t.Fatalf("far resource should remain, registry has %d", reg.Len())
	}
}

func TestSearchPicksNearest(t *testing.T) {
	g, ant, reg, _ := setup(5)
	ant.pos = world.Point{X: 50, Y: 50}
	reg.Add(world.ResourceLeaf, world.Point{X: 150, Y: 50})
	mid := reg.Add(world.ResourceLeaf, world.Point{X: 80, Y: 50})
	reg.Add(world.ResourceLeaf, world.Point{X: 50, Y: 250})

	found := g.SearchForResources()
	if len(found) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(found))
	}
	if tgt, _ := g.Target(); tgt.ID != mid {
		t.Fatalf("expected nearest %d, got %d", mid, tgt.ID)
	}
}

func TestSearchClearsTargetWhenEmpty(t *testing.T) {
	g, _, reg, _ := setup(5)
	id := reg.Add(world.ResourceFood, world.Point{X: 5})
	g.SearchForResources()
	reg.Remove(id)
	if found := g.SearchForResources(); found != nil {
		t.Fatalf("expected nothing, got %+v", found)
	}
	if g.DebugInfo().HasTarget {
		t.Fatalf("target should be cleared")
	}
}

func TestRefusedCollectionKeepsTarget(t *testing.T) {
	g, ant, reg, _ := setup(5)
	id := reg.Add(world.ResourceFood, world.Point{X: 5})
	g.SearchForResources()
	ant.refuse = true

	if g.AttemptResourceCollection() {
		t.Fatalf("refused collection should fail")
	}
	if _, ok := reg.Get(id); !ok {
		t.Fatalf("resource should stay in the world")
	}
	if _, ok := g.Target(); !ok {
		t.Fatalf("target should be kept")
	}
}

func TestStaleTargetDegradesToSearch(t *testing.T) {
	g, _, reg, _ := setup(5)
	id := reg.Add(world.ResourceFood, world.Point{X: 5})
	g.SearchForResources()
	reg.Remove(id)

	if g.AttemptResourceCollection() {
		t.Fatalf("stale target should not collect")
	}
	if _, ok := g.Target(); ok {
		t.Fatalf("stale target should be dropped")
	}

	other := reg.Add(world.ResourceFood, world.Point{X: 40})
	g.Enter()
	g.Update()
	if tgt, ok := g.Target(); !ok || tgt.ID != other {
		t.Fatalf("update should re-search, got %+v", tgt)
	}
}

func TestUpdateTargetMovement(t *testing.T) {
	g, ant, reg, _ := setup(5)
	reg.Add(world.ResourceFood, world.Point{X: 200})
	g.SearchForResources()

	g.UpdateTargetMovement()
	if len(ant.moves) != 1 || ant.moves[0].X != 200 {
		t.Fatalf("expected move toward target, got %+v", ant.moves)
	}

	ant.pos = world.Point{X: 195}
	g.UpdateTargetMovement()
	if ant.CurrentLoad() != 1 {
		t.Fatalf("in-range target should be collected")
	}
	if len(ant.moves) != 1 {
		t.Fatalf("no move expected when collecting")
	}
}

func TestTransitionToDropOffWhenFull(t *testing.T) {
	g, ant, reg, m := setup(1)
	reg.Add(world.ResourceFood, world.Point{X: 3})
	g.Enter()
	g.Update()

	if ant.CurrentLoad() != 1 {
		t.Fatalf("expected pickup, load %d", ant.CurrentLoad())
	}
	if m.Current() != state.DroppingOff {
		t.Fatalf("expected dropping off, got %s", m)
	}
	if g.Active() {
		t.Fatalf("gatherer should deactivate on hand-off")
	}
	if ant.dropTo == nil || ant.dropTo.X != -50 {
		t.Fatalf("drop-off should head to nearest drop point, got %+v", ant.dropTo)
	}
}

func TestDropOffWithoutDropPoints(t *testing.T) {
	ant := &fakeAnt{capacity: 1, pos: world.Point{X: 7, Y: 8}}
	m := state.New()
	g := New(DefaultConfig(), ant, ant, world.NewRegistry(), nil, m)
	g.TransitionToDropOff()
	if ant.dropTo == nil || *ant.dropTo != ant.pos {
		t.Fatalf("expected drop in place, got %+v", ant.dropTo)
	}
}

func TestInactiveUpdateDoesNothing(t *testing.T) {
	g, ant, reg, _ := setup(5)
	reg.Add(world.ResourceFood, world.Point{X: 3})
	g.Update()
	if ant.CurrentLoad() != 0 || len(ant.moves) != 0 {
		t.Fatalf("inactive gatherer acted")
	}
}

func TestDebugInfo(t *testing.T) {
	g, _, reg, _ := setup(5)
	g.SetDebugEnabled(true)
	reg.Add(world.ResourceFood, world.Point{X: 3})
	g.SearchForResources()

	info := g.DebugInfo()
	if !info.HasTarget || info.PixelRadius != 320 || info.GatherRadius != 10 || info.Target == nil {
		t.Fatalf("unexpected debug info %+v", info)
	}
	info.Target.X = 999
	if tgt, _ := g.Target(); tgt.X == 999 {
		t.Fatalf("debug snapshot aliases internal target")
	}
}
