package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/talgya/antcolony/internal/agents"
	"github.com/talgya/antcolony/internal/brain"
	"github.com/talgya/antcolony/internal/config"
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/queen"
)

func smallTuning() config.Tuning {
	t := config.Default()
	t.Seed = 42
	t.World.Width = 12
	t.World.Height = 12
	t.Colony.Size = 6
	return t
}

func TestEngineStepCallbacks(t *testing.T) {
	e := NewEngine(10)
	frames, seconds := 0, 0
	var simTime float64
	e.OnFrame = func(dt float64) {
		frames++
		simTime += dt
	}
	e.OnSecond = func(uint64) { seconds++ }

	for i := 0; i < 25; i++ {
		e.Step()
	}
	if frames != 25 || seconds != 2 || e.Second != 2 {
		t.Fatalf("frames=%d seconds=%d e.Second=%d", frames, seconds, e.Second)
	}
	if math.Abs(simTime-2.5) > 1e-9 {
		t.Fatalf("sim time = %v, want 2.5", simTime)
	}
}

func TestEngineRunStop(t *testing.T) {
	e := NewEngine(100)
	e.SetSpeed(10)
	ticked := make(chan struct{}, 1)
	e.OnSecond = func(uint64) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	}

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-ticked:
	case <-time.After(3 * time.Second):
		t.Fatalf("engine never completed a second")
	}
	e.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after Stop")
	}
	if e.Running() {
		t.Fatalf("engine still reports running")
	}
}

func TestSimClock(t *testing.T) {
	if got := SimClock(3661); got != "Day 1, 01:01:01" {
		t.Fatalf("got %q", got)
	}
	if got := SimClock(86400); got != "Day 2, 00:00:00" {
		t.Fatalf("got %q", got)
	}
}

func TestColonyPopulateAndRun(t *testing.T) {
	c := NewColony(smallTuning())
	c.Populate()
	if len(c.Ants) != 6 {
		t.Fatalf("ants = %d", len(c.Ants))
	}
	if c.QueenAnt == nil || !c.QueenAnt.IsQueen() {
		t.Fatalf("colony has no queen")
	}
	if got := len(c.Queen.Roster()); got != 5 {
		t.Fatalf("roster = %d, want 5", got)
	}

	for s := uint64(1); s <= 2; s++ {
		for i := 0; i < 30; i++ {
			c.Frame(1.0 / 30)
		}
		c.Second(s)
	}
	st := c.Status()
	if st.Second != 2 || st.Stats.Population != 6 {
		t.Fatalf("status = %+v", st)
	}
	if c.Frames != 60 {
		t.Fatalf("frames = %d", c.Frames)
	}
}

func TestIssueCommand(t *testing.T) {
	c := NewColony(smallTuning())
	c.Populate()

	n, err := c.IssueCommand(CommandRequest{Type: "rally"})
	if err != nil || n != 5 {
		t.Fatalf("rally reached %d, err %v", n, err)
	}
	for _, a := range c.Ants {
		if a == c.QueenAnt {
			continue
		}
		if !a.State.IsMoving() {
			t.Fatalf("ant %d state %s after rally", a.ID, a.State)
		}
	}

	if _, err := c.IssueCommand(CommandRequest{Type: "dance"}); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v", err)
	}

	var worker *agents.Ant
	for _, a := range c.Ants {
		if a != c.QueenAnt {
			worker = a
			break
		}
	}
	id := worker.ID
	if n, err := c.IssueCommand(CommandRequest{Type: "build", Ant: &id}); err != nil || n != 1 {
		t.Fatalf("direct build: n=%d err=%v", n, err)
	}
	if worker.Orders.Len() != 1 {
		t.Fatalf("worker should have a queued order")
	}

	qid := c.QueenAnt.ID
	if _, err := c.IssueCommand(CommandRequest{Type: "move", Ant: &qid}); !errors.Is(err, ErrNotInRoster) {
		t.Fatalf("queen is not on her own roster, err = %v", err)
	}
	missing := agents.AntID(9999)
	if _, err := c.IssueCommand(CommandRequest{Type: "move", Ant: &missing}); !errors.Is(err, ErrUnknownAnt) {
		t.Fatalf("err = %v", err)
	}
}

func TestPowers(t *testing.T) {
	c := NewColony(smallTuning())
	c.Populate()

	if err := c.SetPower("bogus", true); !errors.Is(err, ErrUnknownPower) {
		t.Fatalf("err = %v", err)
	}
	if err := c.SetPower(string(queen.PowerSummonSwarm), true); err != nil {
		t.Fatal(err)
	}
	c.Second(1)
	if len(c.Ants) != 6+SwarmSize {
		t.Fatalf("ants after swarm = %d", len(c.Ants))
	}
	c.Second(2)
	if len(c.Ants) != 6+SwarmSize {
		t.Fatalf("swarm should only be summoned once, got %d ants", len(c.Ants))
	}

	if err := c.SetPower(string(queen.PowerPheromoneBurst), true); err != nil {
		t.Fatal(err)
	}
	c.Second(3)
	if _, ok := c.Trails.Get(burstTrail); !ok {
		t.Fatalf("pheromone burst should lay a boss trail")
	}

	found := false
	for _, e := range c.RecentEvents(0) {
		if e.Category == "power" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected power events")
	}
}

func TestStarvationThinsRoster(t *testing.T) {
	tu := smallTuning()
	tu.Hunger = brain.Thresholds{Hungry: 1, Starving: 2, Death: 3}
	c := NewColony(tu)
	c.Populate()

	c.Frame(3)
	c.Second(1)

	if len(c.Queen.Roster()) != 0 {
		t.Fatalf("dead ants should leave the roster, %d left", len(c.Queen.Roster()))
	}
	if c.Stats.Population != 1 || c.Stats.Dead != 5 {
		t.Fatalf("stats = %+v", c.Stats)
	}
	if c.QueenAnt.IsDead() {
		t.Fatalf("queen should survive starvation")
	}
	deaths := 0
	for _, e := range c.RecentEvents(0) {
		if e.Category == "death" {
			deaths++
		}
	}
	if deaths != 5 {
		t.Fatalf("death events = %d", deaths)
	}
}

func TestSnapshotRestore(t *testing.T) {
	tu := smallTuning()
	c := NewColony(tu)
	c.Populate()
	if err := c.SetPower(string(queen.PowerPheromoneBurst), true); err != nil {
		t.Fatal(err)
	}
	c.Second(1)
	c.Ants[1].Brain.SetHunger(50)
	snap := c.Snapshot()

	r := NewColony(tu)
	r.RestoreSnapshot(snap)
	if len(r.Ants) != len(c.Ants) || r.LastSecond != 1 {
		t.Fatalf("restored %d ants at second %d", len(r.Ants), r.LastSecond)
	}
	if r.Trails.Len() != c.Trails.Len() || r.Resources.Len() != c.Resources.Len() {
		t.Fatalf("trails %d/%d resources %d/%d", r.Trails.Len(), c.Trails.Len(), r.Resources.Len(), c.Resources.Len())
	}
	if !r.Queen.IsPowerUnlocked(queen.PowerPheromoneBurst) {
		t.Fatalf("powers should survive a restore")
	}
	if r.AntIndex[c.Ants[1].ID].Brain.Hunger() != 50 {
		t.Fatalf("hunger lost on restore")
	}
	if r.QueenAnt.Job != jobs.Queen || r.QueenAnt.ID != c.QueenAnt.ID {
		t.Fatalf("restored queen %d, want %d", r.QueenAnt.ID, c.QueenAnt.ID)
	}
}
