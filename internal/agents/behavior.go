package agents

import (
	"fmt"
	"math"

	"github.com/talgya/antcolony/internal/brain"
	"github.com/talgya/antcolony/internal/command"
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/pheromone"
	"github.com/talgya/antcolony/internal/social"
	"github.com/talgya/antcolony/internal/state"
	"github.com/talgya/antcolony/internal/weather"
	"github.com/talgya/antcolony/internal/world"
)

const (
	BuildSeconds       = 5.0  // Time spent on one construction order
	GuardSeconds       = 10.0 // Time a defender holds its post
	DefaultArriveRange = 4.0  // Pixels
	TrailScanSeconds   = 1.0  // Interval between trail checks while foraging finds nothing
	slideFactor        = 1.2
)

// Env is the shared world an ant acts in during a frame. Any field may be
// nil; the matching behavior is then skipped.
type Env struct {
	Map         *world.Map
	Weather     weather.Condition
	Trails      *pheromone.Field
	Nests       *social.Nests
	SenseRadius float64 // Pixels within which trails are noticed
	Deposit     float64 // Strength of trails laid by ants
	ArriveRange float64
}

func (e *Env) arriveRange() float64 {
	if e.ArriveRange <= 0 {
		return DefaultArriveRange
	}
	return e.ArriveRange
}

// NoteKind classifies something worth logging that happened to an ant.
type NoteKind string

const (
	NoteDied     NoteKind = "died"
	NoteUnloaded NoteKind = "unloaded"
	NoteBuilt    NoteKind = "built"
	NoteFollowed NoteKind = "followed_trail"
	NoteRefused  NoteKind = "refused_order"
)

// Note is a frame outcome for the colony event log.
type Note struct {
	Ant    AntID
	Kind   NoteKind
	Detail string
}

type trailLock struct {
	name string
	cat  pheromone.Category
}

// Frame advances the ant by dt seconds. The brain runs first so hunger can
// kill the ant before it acts; then the terrain modifier is refreshed, one
// queued order is applied, idle ants look for work, the gatherer runs and
// finally the ant moves.
func (a *Ant) Frame(env *Env, dt float64) []Note {
	if a.IsDead() {
		return nil
	}
	var notes []Note

	a.Brain.Update(dt)
	if a.IsDead() {
		return append(notes, a.note(NoteDied, fmt.Sprintf("%s starved at hunger %d", a.Name, a.Brain.Hunger())))
	}

	a.senseTerrain(env)
	notes = append(notes, a.Consume(env)...)
	notes = a.tickTimers(env, dt, notes)

	if a.State.IsIdle() {
		notes = a.chooseWork(env, notes)
	}

	if a.Forage.Active() {
		before := a.Load.Len()
		a.Forage.Update()
		if a.Load.Len() > before {
			a.layTrail(env, pheromone.CategoryForage, a.Pos)
		} else if _, ok := a.Forage.Target(); !ok && a.Forage.Active() {
			notes = a.lookElsewhere(env, dt, notes)
		}
	} else {
		a.scanLeft = 0
	}

	if a.step(env, dt) {
		notes = a.arrive(env, notes)
	}
	return notes
}

func (a *Ant) note(kind NoteKind, detail string) Note {
	return Note{Ant: a.ID, Kind: kind, Detail: detail}
}

// senseTerrain maps the effective ground under the ant to the terrain
// modifier, touching the machine only when the value changes.
func (a *Ant) senseTerrain(env *Env) {
	if env.Map == nil {
		return
	}
	base := env.Map.TerrainAt(a.Pos)
	a.ground = weather.Overlay(base, env.Map.MoistureAt(a.Pos), env.Weather)
	if t := TerrainState(a.ground); a.State.Terrain() != t {
		a.State.SetTerrain(t)
	}
}

// TerrainState converts world terrain to the state machine's modifier.
func TerrainState(t world.Terrain) state.Terrain {
	switch t {
	case world.TerrainWater:
		return state.InWater
	case world.TerrainMud:
		return state.InMud
	case world.TerrainRough:
		return state.OnRough
	case world.TerrainSlippery:
		return state.OnSlippery
	default:
		return state.Default
	}
}

// Consume applies at most one queued order. Orders take precedence over
// whatever the brain would otherwise choose.
func (a *Ant) Consume(env *Env) []Note {
	c, ok := a.Orders.Pop()
	if !ok {
		return nil
	}
	var notes []Note
	switch c.Type {
	case command.Move:
		a.MoveTo(c.X, c.Y)
	case command.Gather:
		if !a.startGathering() {
			notes = append(notes, a.note(NoteRefused, fmt.Sprintf("%s cannot gather", a.Name)))
		}
	case command.Build:
		if !a.startBuilding() {
			notes = append(notes, a.note(NoteRefused, fmt.Sprintf("%s cannot build now", a.Name)))
		}
	case command.Defend:
		target := world.Point{X: c.X, Y: c.Y}
		if c.Target != nil {
			target = *c.Target
		}
		a.defend(target)
		a.layTrail(env, pheromone.CategoryEnemy, target)
	}
	return notes
}

func (a *Ant) startGathering() bool {
	if jobs.Of(a.Job).GatherSpeed <= 0 || !a.State.CanPerform(state.ActGather) {
		return false
	}
	a.following = nil
	a.buildLeft = 0
	a.Forage.Enter()
	return true
}

func (a *Ant) startBuilding() bool {
	if !a.State.CanPerform(state.ActBuild) {
		return false
	}
	a.Forage.Exit()
	a.following = nil
	a.Dest = nil
	a.State.SetPrimary(state.Building)
	a.buildLeft = BuildSeconds
	return true
}

func (a *Ant) defend(target world.Point) {
	a.Forage.Exit()
	a.following = nil
	a.buildLeft = 0
	a.State.SetCombat(state.InCombat)
	a.State.SetPrimary(state.Patrolling)
	a.guardLeft = GuardSeconds
	a.setDest(target.X, target.Y)
}

func (a *Ant) tickTimers(env *Env, dt float64, notes []Note) []Note {
	if a.buildLeft > 0 && a.State.IsBuilding() {
		a.buildLeft -= dt
		if a.buildLeft <= 0 {
			a.buildLeft = 0
			a.layTrail(env, pheromone.CategoryBuild, a.Pos)
			notes = append(notes, a.note(NoteBuilt, fmt.Sprintf("%s finished building at (%.0f, %.0f)", a.Name, a.Pos.X, a.Pos.Y)))
			a.resumeWork()
		}
	}
	if a.guardLeft > 0 {
		a.guardLeft -= dt
		if a.guardLeft <= 0 {
			a.guardLeft = 0
			a.State.SetCombat(state.OutOfCombat)
			if a.State.Current() == state.Patrolling {
				a.Dest = nil
				a.State.SetPrimary(state.Idle)
			}
		}
	}
	return notes
}

// chooseWork lets an idle ant pick up a nearby trail, falling back to its
// preferred activity. Queens stay where they are.
func (a *Ant) chooseWork(env *Env, notes []Note) []Note {
	if a.IsQueen() {
		return notes
	}
	if t, ok := a.FollowTrails(env); ok {
		return append(notes, a.note(NoteFollowed, fmt.Sprintf("%s follows %s", a.Name, t.Name)))
	}
	a.resumeWork()
	return notes
}

// lookElsewhere runs while foraging turns up nothing in reach. A starving
// ant with anything in its jaws heads home to eat; otherwise the brain is
// offered the sensed trails once every TrailScanSeconds.
func (a *Ant) lookElsewhere(env *Env, dt float64, notes []Note) []Note {
	if a.Brain.Flag() == brain.FlagStarving && a.CurrentLoad() > 0 {
		a.Forage.TransitionToDropOff()
		return notes
	}
	a.scanLeft -= dt
	if a.scanLeft > 0 {
		return notes
	}
	a.scanLeft = TrailScanSeconds
	if t, ok := a.FollowTrails(env); ok {
		notes = append(notes, a.note(NoteFollowed, fmt.Sprintf("%s leaves a bare patch for %s", a.Name, t.Name)))
	}
	return notes
}

// FollowTrails offers the sensed trails to the brain, nearest first, and
// sets off along the first one it accepts. Trails under the ant's feet are
// ignored.
func (a *Ant) FollowTrails(env *Env) (pheromone.Trail, bool) {
	if env.Trails == nil || !a.State.CanPerform(state.ActFollowTrail) {
		return pheromone.Trail{}, false
	}
	for _, t := range env.Trails.Nearby(a.Pos, env.SenseRadius) {
		if world.Within(a.Pos, t.Pos, env.arriveRange()) {
			continue
		}
		if !a.Brain.CheckTrail(t) {
			continue
		}
		a.Forage.Exit()
		a.following = &trailLock{name: t.Name, cat: t.Category}
		a.State.SetPrimary(state.FollowingTrail)
		a.setDest(t.Pos.X, t.Pos.Y)
		return t, true
	}
	return pheromone.Trail{}, false
}

// resumeWork returns the ant to its preferred activity.
func (a *Ant) resumeWork() {
	if a.State.Preferred() == state.Gathering {
		if a.startGathering() {
			return
		}
		a.State.SetPrimary(state.Idle)
		return
	}
	a.State.ResumePreferred()
}

// step moves the ant toward its destination and reports arrival.
func (a *Ant) step(env *Env, dt float64) bool {
	if a.Dest == nil || a.State.IsBuilding() {
		return false
	}
	speed := jobs.Of(a.Job).MovementSpeed * weather.TravelPenalty(a.ground) * a.speedMul * dt
	if speed < 0 {
		speed = 0
	}
	dx, dy := a.Dest.X-a.Pos.X, a.Dest.Y-a.Pos.Y
	dist := math.Hypot(dx, dy)

	if !a.State.CanPerform(state.ActMove) {
		if a.State.IsOnSlippery() {
			a.slide(env, dx, dy, dist, speed)
		}
		return false
	}

	if dist <= speed {
		a.Pos = *a.Dest
		return true
	}
	a.heading = world.Point{X: dx / dist, Y: dy / dist}
	a.Pos.X += a.heading.X * speed
	a.Pos.Y += a.heading.Y * speed
	if env.Map != nil {
		a.Pos = env.Map.Clamp(a.Pos)
	}
	return false
}

// slide carries the ant along its last heading without control.
func (a *Ant) slide(env *Env, dx, dy, dist, speed float64) {
	h := a.heading
	if h.X == 0 && h.Y == 0 {
		if dist == 0 {
			return
		}
		h = world.Point{X: dx / dist, Y: dy / dist}
	}
	a.Pos.X += h.X * speed * slideFactor
	a.Pos.Y += h.Y * speed * slideFactor
	if env.Map != nil {
		a.Pos = env.Map.Clamp(a.Pos)
	}
}

func (a *Ant) arrive(env *Env, notes []Note) []Note {
	switch a.State.Current() {
	case state.DroppingOff:
		a.Dest = nil
		notes = append(notes, a.unload(env))
	case state.Moving:
		a.Dest = nil
		a.State.SetPrimary(state.Idle)
	case state.FollowingTrail:
		a.Dest = nil
		a.reachTrail()
	case state.Gathering, state.Patrolling:
		// Gatherer re-targets each frame; defenders hold the point.
	default:
		a.Dest = nil
	}
	return notes
}

// unload stores the load at the nest under the ant and lets it eat.
func (a *Ant) unload(env *Env) Note {
	items := a.Load.Unload()
	where := "the ground"
	if env.Nests != nil {
		if n := env.Nests.Nearest(a.Pos); n != nil && world.Within(a.Pos, n.Position, env.arriveRange()) {
			n.Deposit(items)
			where = n.Name
		}
	}
	a.Brain.ResetHunger()
	a.State.SetPrimary(state.Idle)
	return a.note(NoteUnloaded, fmt.Sprintf("%s unloaded %d items at %s", a.Name, len(items), where))
}

func (a *Ant) reachTrail() {
	lock := a.following
	a.following = nil
	if lock == nil {
		a.State.SetPrimary(state.Idle)
		return
	}
	switch lock.cat {
	case pheromone.CategoryForage:
		if !a.startGathering() {
			a.State.SetPrimary(state.Idle)
		}
	case pheromone.CategoryBuild:
		if !a.startBuilding() {
			a.State.SetPrimary(state.Idle)
		}
	case pheromone.CategoryEnemy:
		a.defend(a.Pos)
	default:
		a.State.SetPrimary(state.Idle)
	}
}

// layTrail refreshes the trail of cat on the tile containing p.
func (a *Ant) layTrail(env *Env, cat pheromone.Category, p world.Point) {
	if env.Trails == nil || env.Deposit <= 0 {
		return
	}
	env.Trails.Deposit(TrailName(cat, p), cat, p, env.Deposit)
}

// TrailName names the trail of a category on the tile containing p.
func TrailName(cat pheromone.Category, p world.Point) string {
	tc := world.TileOf(p, world.DefaultTileSize)
	return fmt.Sprintf("%s-%d-%d", pheromone.CategoryName(cat), tc.Col, tc.Row)
}
