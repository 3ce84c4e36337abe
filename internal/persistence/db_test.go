package persistence

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/talgya/antcolony/internal/config"
	"github.com/talgya/antcolony/internal/engine"
	"github.com/talgya/antcolony/internal/queen"
	"github.com/talgya/antcolony/internal/world"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "colony.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testColony() *engine.Colony {
	tu := config.Default()
	tu.Seed = 7
	tu.World.Width = 12
	tu.World.Height = 12
	tu.Colony.Size = 5
	c := engine.NewColony(tu)
	c.Populate()
	return c
}

func TestSaveAndLoadColony(t *testing.T) {
	db := openTemp(t)
	if db.HasColony() {
		t.Fatalf("fresh database should be empty")
	}

	c := testColony()
	c.Ants[1].Brain.SetHunger(33)
	c.Ants[1].Add(world.Resource{ID: 500, Type: world.ResourceTwig})
	c.Nests.All()[0].Deposit([]world.Resource{{Type: world.ResourceFood}, {Type: world.ResourceFood}})
	c.Second(4)
	c.EmitEvent(engine.Event{Second: 4, Description: "test", Category: "ant", Meta: map[string]any{"k": "v"}})

	if err := db.SaveColony(c); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !db.HasColony() {
		t.Fatalf("saved colony not detected")
	}
	if got := db.LastSecond(); got != 4 {
		t.Fatalf("last second = %d", got)
	}

	ants, err := db.LoadAnts()
	if err != nil {
		t.Fatal(err)
	}
	if len(ants) != len(c.Ants) {
		t.Fatalf("loaded %d ants, want %d", len(ants), len(c.Ants))
	}
	r := ants[1]
	if r.ID != c.Ants[1].ID || r.Hunger != 33 || len(r.Load) != 1 || r.Load[0].Type != world.ResourceTwig {
		t.Fatalf("ant record = %+v", r)
	}

	res, err := db.LoadResources()
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != c.Resources.Len() {
		t.Fatalf("loaded %d resources, want %d", len(res), c.Resources.Len())
	}

	stores, err := db.LoadNestStores()
	if err != nil {
		t.Fatal(err)
	}
	if got := stores[c.Nests.All()[0].ID][world.ResourceFood]; got != 2 {
		t.Fatalf("stored food = %d", got)
	}

	events, err := db.RecentEvents(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Description != "test" || events[0].Meta["k"] != "v" {
		t.Fatalf("events = %+v", events)
	}

	restored := engine.NewColony(c.Tuning)
	restored.Restore(ants, res, db.LastSecond())
	restored.RestoreStores(stores)
	if restored.Nests.TotalStored() != 2 || len(restored.Ants) != len(c.Ants) {
		t.Fatalf("restore mismatch: stored %d ants %d", restored.Nests.TotalStored(), len(restored.Ants))
	}
}

func TestSnapshots(t *testing.T) {
	db := openTemp(t)
	if _, err := db.LatestSnapshot(); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("err = %v, want ErrNoSnapshot", err)
	}

	c := testColony()
	if err := c.SetPower(string(queen.PowerHealingAura), true); err != nil {
		t.Fatal(err)
	}
	for s := uint64(1); s <= 3; s++ {
		c.Second(s)
		if _, err := db.SaveSnapshot(c.Snapshot()); err != nil {
			t.Fatalf("save snapshot %d: %v", s, err)
		}
	}

	snap, err := db.LatestSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Second != 3 || len(snap.Ants) != len(c.Ants) {
		t.Fatalf("snapshot second %d ants %d", snap.Second, len(snap.Ants))
	}
	if len(snap.Powers) != 1 || snap.Powers[0] != queen.PowerHealingAura {
		t.Fatalf("powers = %v", snap.Powers)
	}

	removed, err := db.PruneSnapshots(1)
	if err != nil || removed != 2 {
		t.Fatalf("pruned %d, err %v", removed, err)
	}
	if snap, err := db.LatestSnapshot(); err != nil || snap.Second != 3 {
		t.Fatalf("latest after prune: second %d err %v", snap.Second, err)
	}
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	if _, err := db.GetMeta("missing"); err == nil {
		t.Fatalf("missing key should error")
	}
	if err := db.SaveMeta("k", "1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("k", "2"); err != nil {
		t.Fatal(err)
	}
	if v, err := db.GetMeta("k"); err != nil || v != "2" {
		t.Fatalf("v=%q err=%v", v, err)
	}
}
