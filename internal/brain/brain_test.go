package brain

import (
	"math"
	"testing"

	"github.com/talgya/antcolony/internal/entropy"
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/pheromone"
)

type damageRecorder struct {
	calls  int
	amount float64
}

func (d *damageRecorder) TakeDamage(amount float64) {
	d.calls++
	d.amount += amount
}

func newTestBrain(owner Owner, job jobs.Type, rng entropy.Source) *Brain {
	return New(owner, job, 1, DefaultThresholds(), rng)
}

func TestHungerFlagSchedule(t *testing.T) {
	owner := &damageRecorder{}
	b := newTestBrain(owner, jobs.Worker, entropy.Fixed(0))

	wantAt := map[int]Flag{
		1:   FlagNone,
		99:  FlagNone,
		100: FlagHungry,
		159: FlagHungry,
		160: FlagStarving,
		199: FlagStarving,
		200: FlagDeath,
		201: FlagDeath,
	}
	for i := 1; i <= 201; i++ {
		before := b.Hunger()
		b.CheckHunger()
		if b.Hunger() != before+1 {
			t.Fatalf("hunger did not increase by one at step %d", i)
		}
		if want, ok := wantAt[i]; ok && b.Flag() != want {
			t.Fatalf("hunger=%d: flag %s, want %s", i, b.Flag(), want)
		}
		if i < 200 && owner.calls != 0 {
			t.Fatalf("damage applied early at hunger %d", i)
		}
	}
	if owner.calls != 1 || owner.amount != StarvationDamage {
		t.Fatalf("expected one lethal hit, got %d calls totalling %v", owner.calls, owner.amount)
	}
	if b.Priorities() != (Priorities{}) {
		t.Fatalf("dead ant should have zero priorities, got %+v", b.Priorities())
	}
}

func TestQueenImmuneToStarvation(t *testing.T) {
	owner := &damageRecorder{}
	th := DefaultThresholds()
	b := New(owner, jobs.Queen, 1, th, entropy.Fixed(0))
	b.SetHunger(th.Death - 1)

	b.CheckHunger()

	if b.Flag() != FlagDeath {
		t.Fatalf("expected death flag, got %s", b.Flag())
	}
	if owner.calls != 0 {
		t.Fatalf("queen took starvation damage")
	}
}

func TestNilOwnerDoesNotPanic(t *testing.T) {
	th := DefaultThresholds()
	b := New(nil, jobs.Worker, 1, th, nil)
	b.SetHunger(th.Death - 1)
	b.CheckHunger()
	b.RunFlagState()
	if b.Flag() != FlagDeath {
		t.Fatalf("expected death flag, got %s", b.Flag())
	}
}

func TestFlagPriorityModifiers(t *testing.T) {
	base := BasePriorities(jobs.Builder, 1)
	b := newTestBrain(nil, jobs.Builder, entropy.Fixed(0))

	b.SetHunger(99)
	b.CheckHunger()
	p := b.Priorities()
	if p.Forage != 1 || p.Build != base.Build/2 || p.Farm != base.Farm || p.Enemy != base.Enemy {
		t.Fatalf("unexpected hungry priorities %+v (base %+v)", p, base)
	}

	// Repeated hungry ticks must not compound the halving.
	b.CheckHunger()
	if b.Priorities().Build != base.Build/2 {
		t.Fatalf("build halved twice: %v", b.Priorities().Build)
	}

	b.SetHunger(159)
	b.CheckHunger()
	p = b.Priorities()
	if p.Forage != 2 || p.Build != 0 || p.Farm != 0 || p.Boss != base.Boss {
		t.Fatalf("unexpected starving priorities %+v", p)
	}

	b.ResetHunger()
	if b.Hunger() != 0 || b.Flag() != FlagNone {
		t.Fatalf("reset left hunger=%d flag=%s", b.Hunger(), b.Flag())
	}
	if b.Priorities() != base {
		t.Fatalf("reset did not restore base priorities: %+v", b.Priorities())
	}
}

func TestSetPriority(t *testing.T) {
	b := newTestBrain(nil, jobs.Soldier, nil)
	b.SetPriority(jobs.Soldier, 1)
	first := b.Priorities()
	b.SetPriority(jobs.Soldier, 1)
	if b.Priorities() != first {
		t.Fatalf("SetPriority not idempotent")
	}

	for _, j := range append(jobs.All(), jobs.Type("unknown")) {
		b.SetPriority(j, 0)
		if b.Priorities() != (Priorities{}) {
			t.Fatalf("multiplier 0 left weights for %s: %+v", j, b.Priorities())
		}
	}

	b.SetPriority(jobs.Type("unknown"), 2)
	if b.Priorities() != DefaultPriorities.Scale(2) {
		t.Fatalf("unknown job should use default weights, got %+v", b.Priorities())
	}
}

func TestPenaltyFirstMatchWins(t *testing.T) {
	b := newTestBrain(nil, jobs.Worker, nil)
	b.AddPenalty("trail-a", 0.3)
	b.AddPenalty("trail-a", 0.9)

	if got := b.GetPenalty("trail-a"); got != 0.3 {
		t.Fatalf("expected first penalty 0.3, got %v", got)
	}
	if n := len(b.Penalties()); n != 2 {
		t.Fatalf("expected 2 entries, got %d", n)
	}
	if got := b.GetPenalty("trail-b"); got != NoPenalty {
		t.Fatalf("unpenalized trail should report %v, got %v", NoPenalty, got)
	}
}

func TestCheckTrail(t *testing.T) {
	full := pheromone.Trail{Name: "food", Category: pheromone.CategoryForage, Strength: 10, Initial: 10}
	half := pheromone.Trail{Name: "half", Category: pheromone.CategoryForage, Strength: 5, Initial: 10}
	forage := BasePriorities(jobs.Worker, 1).Forage // 0.8

	cases := []struct {
		name   string
		trail  pheromone.Trail
		sample float64
		want   bool
	}{
		{"below threshold", full, forage - 0.01, true},
		{"at threshold", full, forage, false},
		{"decayed trail halves threshold", half, forage/2 + 0.01, false},
		{"decayed trail still followed", half, forage/2 - 0.01, true},
		{"no initial strength", pheromone.Trail{Name: "x", Strength: 5}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBrain(nil, jobs.Worker, entropy.Fixed(tc.sample))
			if got := b.CheckTrail(tc.trail); got != tc.want {
				t.Fatalf("CheckTrail = %v, want %v", got, tc.want)
			}
			if !tc.want && b.GetPenalty(tc.trail.Name) != DefaultPenalty {
				t.Fatalf("declined trail not penalized")
			}
			if tc.want && len(b.Penalties()) != 0 {
				t.Fatalf("followed trail should not be penalized")
			}
		})
	}
}

func TestPenaltyLowersFutureThreshold(t *testing.T) {
	tr := pheromone.Trail{Name: "food", Category: pheromone.CategoryForage, Strength: 1, Initial: 1}
	// 0.9 fails against 0.8; 0.5 would pass unpenalized but fails against 0.8*0.5.
	b := newTestBrain(nil, jobs.Worker, entropy.NewSequence(0.9, 0.5))
	if b.CheckTrail(tr) {
		t.Fatalf("first check should decline")
	}
	if b.CheckTrail(tr) {
		t.Fatalf("penalized trail should be declined at 0.5")
	}
	if got := len(b.Penalties()); got != 2 {
		t.Fatalf("expected 2 penalties, got %d", got)
	}
}

func TestStarvingAlwaysFollowsForage(t *testing.T) {
	b := newTestBrain(nil, jobs.Builder, entropy.Fixed(0.999))
	b.SetHunger(159)
	b.CheckHunger()
	tr := pheromone.Trail{Name: "food", Category: pheromone.CategoryForage, Strength: 1, Initial: 1}
	if !b.CheckTrail(tr) {
		t.Fatalf("starving ant should always follow a fresh forage trail")
	}
	build := pheromone.Trail{Name: "wall", Category: pheromone.CategoryBuild, Strength: 1, Initial: 1}
	if b.CheckTrailWithPenalty(build, 0.2) {
		t.Fatalf("starving ant should ignore build trails")
	}
	if b.GetPenalty("wall") != 0.2 {
		t.Fatalf("explicit penalty not recorded")
	}
}

func TestUpdateAccumulates(t *testing.T) {
	b := newTestBrain(nil, jobs.Worker, nil)

	b.Update(0.5)
	if b.Hunger() != 0 {
		t.Fatalf("half a second should not tick hunger")
	}
	b.Update(0.5)
	if b.Hunger() != 1 {
		t.Fatalf("expected hunger 1, got %d", b.Hunger())
	}
	b.Update(3.25)
	if b.Hunger() != 4 {
		t.Fatalf("multi-second delta should tick three times, got %d", b.Hunger())
	}
	b.Update(-2)
	b.Update(1.5)
	if b.Hunger() != 4 {
		t.Fatalf("negative delta should wind the clock back, got hunger %d", b.Hunger())
	}
	if info := b.DebugInfo(); info.Timer != -0.25 || info.Flag != "none" {
		t.Fatalf("unexpected debug info %+v", info)
	}
}

func TestUpdateIgnoresNonFinite(t *testing.T) {
	b := newTestBrain(nil, jobs.Worker, nil)
	b.Update(math.Inf(1))
	b.Update(math.Inf(-1))
	b.Update(math.NaN())
	if b.Hunger() != 0 {
		t.Fatalf("non-finite deltas should not tick hunger, got %d", b.Hunger())
	}
	b.Update(1)
	if b.Hunger() != 1 {
		t.Fatalf("clock should still run after a bad delta, got %d", b.Hunger())
	}
}
