// Command colonysim runs the ant colony simulation.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/talgya/antcolony/internal/api"
	"github.com/talgya/antcolony/internal/config"
	"github.com/talgya/antcolony/internal/engine"
	"github.com/talgya/antcolony/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("COLONY_LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	slog.Info("ant colony simulation")

	// ── Configuration ─────────────────────────────────────────────────
	tuning, err := config.LoadOrDefault(os.Getenv("COLONY_TUNING"))
	if err != nil {
		slog.Error("failed to load tuning", "error", err)
		os.Exit(1)
	}
	if v := os.Getenv("COLONY_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			slog.Error("invalid COLONY_SEED", "value", v, "error", err)
			os.Exit(1)
		}
		tuning.Seed = seed
	}

	dbPath := envOr("COLONY_DB", "data/colony.db")
	apiPort, err := strconv.Atoi(envOr("COLONY_PORT", "8080"))
	if err != nil {
		slog.Error("invalid COLONY_PORT", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Load or Generate Colony ───────────────────────────────────────
	colony := engine.NewColony(tuning)
	fresh := false

	snap, err := db.LatestSnapshot()
	switch {
	case err == nil:
		colony.RestoreSnapshot(snap)
		slog.Info("colony restored from snapshot", "second", snap.Second, "ants", len(snap.Ants))
	case !errors.Is(err, persistence.ErrNoSnapshot):
		slog.Error("failed to read snapshot", "error", err)
		os.Exit(1)
	case db.HasColony():
		if err := restoreTables(db, colony); err != nil {
			slog.Error("failed to restore colony", "error", err)
			os.Exit(1)
		}
	default:
		slog.Info("no saved colony found, founding a new one...")
		colony.Populate()
		fresh = true
	}

	status := colony.Status()
	slog.Info("colony ready",
		"ants", status.Stats.Population,
		"resources", status.Stats.Resources,
		"second", status.Second,
	)

	if fresh {
		if err := save(db, colony); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Simulation ────────────────────────────────────────────────────
	eng := engine.NewEngine(tuning.FrameRateHz)
	eng.Second = status.Second

	saveEvery := uint64(tuning.SaveEverySeconds)
	eng.OnFrame = colony.Frame
	eng.OnSecond = func(second uint64) {
		colony.Second(second)
		if saveEvery > 0 && second%saveEvery == 0 {
			if err := save(db, colony); err != nil {
				slog.Error("periodic save failed", "error", err)
			}
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("COLONY_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("COLONY_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}
	apiServer := &api.Server{
		Colony:   colony,
		Eng:      eng,
		DB:       db,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nColony is alive: %d ants, queen at %.0f,%.0f.\n",
		status.Stats.Population, status.Queen.Position.X, status.Queen.Position.Y)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	if status.Second > 0 {
		fmt.Printf("Resuming from %s\n", engine.SimClock(status.Second))
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	slog.Info("final save...")
	if err := save(db, colony); err != nil {
		slog.Error("final save failed", "error", err)
	}
	fmt.Println("Simulation stopped. Colony saved.")
}

// restoreTables rebuilds the colony from the row tables. Trails are not
// stored there and start empty.
func restoreTables(db *persistence.DB, colony *engine.Colony) error {
	records, err := db.LoadAnts()
	if err != nil {
		return fmt.Errorf("load ants: %w", err)
	}
	resources, err := db.LoadResources()
	if err != nil {
		return fmt.Errorf("load resources: %w", err)
	}
	stores, err := db.LoadNestStores()
	if err != nil {
		return fmt.Errorf("load nests: %w", err)
	}
	second := db.LastSecond()
	colony.Restore(records, resources, second)
	colony.RestoreStores(stores)
	slog.Info("colony restored from tables", "ants", len(records), "second", second)
	return nil
}

// save writes the row tables and a compressed snapshot, then prunes old
// snapshots.
func save(db *persistence.DB, colony *engine.Colony) error {
	if err := db.SaveColony(colony); err != nil {
		return err
	}
	id, err := db.SaveSnapshot(colony.Snapshot())
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	pruned, err := db.PruneSnapshots(persistence.KeepSnapshots)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	slog.Debug("snapshot saved", "id", id, "pruned", pruned)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
