package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/pthm-cable/serpent/agent"
	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/neural"
	"github.com/pthm-cable/serpent/telemetry"
	"github.com/pthm-cable/serpent/trainer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	generations := flag.Int("generations", 100, "Number of generations to train")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	baseline := flag.Int("baseline", 0, "Play N greedy games after training for comparison (0 = skip)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	t, err := trainer.New(rng, cfg, out)
	if err != nil {
		slog.Error("failed to create trainer", "error", err)
		os.Exit(1)
	}

	slog.Info("starting training",
		"seed", rngSeed,
		"generations", *generations,
		"layers", cfg.Derived.Layers,
		"population", cfg.Population.Size,
		"output_dir", out.Dir(),
	)

	if err := t.Run(*generations); err != nil {
		slog.Error("training failed", "generation", t.Generation(), "error", err)
		os.Exit(1)
	}

	if best, err := t.Best(); err == nil {
		slog.Info("training complete",
			"generations", t.Generation(),
			"best_generation", best.Generation,
			"best_fitness", best.Fitness,
			"best_food", best.Food,
			"best_steps", best.Steps,
		)
	}

	if *baseline > 0 {
		runBaseline(rng, cfg, *baseline)
	}
}

// runBaseline plays the greedy bot under the training settings.
func runBaseline(rng *rand.Rand, cfg *config.Config, games int) {
	fit := trainer.FitnessWeights{Food: cfg.Fitness.FoodWeight, Step: cfg.Fitness.StepWeight}
	collector := telemetry.NewCollector(games)
	for i := 0; i < games; i++ {
		res, err := trainer.Episode(rng, agent.Greedy{}, cfg.Game, fit)
		if err != nil {
			slog.Error("baseline episode failed", "error", err)
			return
		}
		collector.RecordEpisode(telemetry.EpisodeRecord{
			Fitness: res.Fitness,
			Food:    res.Food,
			Steps:   res.Steps,
		})
	}
	stats := collector.Flush(0, neural.Outcome{})
	slog.Info("baseline", "policy", agent.Greedy{}.Name(), "stats", stats)
}
