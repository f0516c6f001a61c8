package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/plus3/slate/ecs"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	jsonOutput := flag.Bool("json", false, "Emit the report as JSON instead of markdown.")
	profileMode := flag.String("profile", "", "Enable profiling: cpu, mem, or trace. Output goes to the current directory.")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "trace":
		defer profile.Start(profile.TraceProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		logger.Fatal().Str("mode", *profileMode).Msg("unknown profile mode")
	}

	logger.Info().Msg("starting ECS stress test")

	// 1. Setup Registry, Storage, and Scheduler
	registry := ecs.NewComponentRegistry()
	RegisterStressComponents(registry)
	bus := ecs.NewEventBus()
	storage := ecs.NewStorage(registry, bus, ecs.WithLogger(logger), ecs.WithCapacity(*entityCount))
	scheduler := ecs.NewScheduler(storage)
	RegisterStressSystems(scheduler)

	// 2. Populate Storage with initial entities
	logger.Info().Int("entities", *entityCount).Msg("populating storage")
	for i := 0; i < *entityCount; i++ {
		// Spawn an entity with 1 to 5 random components
		numComponents := rand.Intn(5) + 1
		SpawnRandomEntity(storage, numComponents)
	}
	logger.Info().Msg("population complete")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     componentCount,
		Systems:        systemCount,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", *duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scheduler.Once(float64(deltaTime) / float64(time.Second))
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info().Int64("updates", totalUpdates).Msg("simulation finished")

	// 4. Generate Report to Console
	if *jsonOutput {
		if err := report.GenerateJSON(os.Stdout); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate JSON report")
		}
		return
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("failed to generate report")
	}
	fmt.Println("--- End of Report ---")

	logger.Info().Msg("stress test complete")
}
