// Command main loads the reference catalog and generates demo data.
package main

import (
	"context"
	"flag"
	"log"

	"nutritrack/internal/bootstrap"
	"nutritrack/internal/cache"
	"nutritrack/internal/config"
	"nutritrack/internal/middleware"
	"nutritrack/internal/notifications"
	"nutritrack/internal/nutriscan"
	"nutritrack/internal/repository"
	"nutritrack/internal/seed"
	"nutritrack/internal/service"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of demo users to create")
	numDays := flag.Int("days", 14, "Days of history per user, ending today")
	seedValue := flag.Int64("seed", 0, "Fix generated data (0 = random)")
	catalogOnly := flag.Bool("catalog-only", false, "Only load the food and exercise catalog")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.Init(ctx, cfg, bootstrap.Options{SeedCatalog: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Close(ctx)

	if *catalogOnly {
		return
	}

	catalog, err := nutriscan.DefaultCatalog()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	store := repository.NewStore(rt.DB)
	var publisher service.SummaryPublisher
	if rt.Redis != nil {
		publisher = notifications.NewNotifier(rt.Redis)
	}
	summaries := service.NewSummaryService(store, cache.New(rt.Redis), publisher, nil)
	streaks := service.NewStreakService(store, nil)

	_, err = seed.NewSeeder(store, summaries, streaks, catalog, nil).Demo(ctx, seed.Options{
		Users: *numUsers,
		Days:  *numDays,
		Seed:  *seedValue,
	})
	if err != nil {
		log.Fatalf("Demo seeding failed: %v", err)
	}

	middleware.Logger.Info("All done. Every demo user has the password " + seed.DemoPassword)
}
