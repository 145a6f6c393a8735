// Command seed populates the brokerage database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"brokerage/internal/config"
	"brokerage/internal/database"
	"brokerage/internal/repository"
	"brokerage/internal/search"
	"brokerage/internal/seed"
)

func main() {
	opts := seed.DefaultOptions
	flag.IntVar(&opts.Properties, "properties", opts.Properties, "Number of properties to create")
	flag.IntVar(&opts.Leads, "leads", opts.Leads, "Number of leads to create")
	flag.IntVar(&opts.Posts, "posts", opts.Posts, "Number of blog posts to create")
	flag.IntVar(&opts.Subscribers, "subscribers", opts.Subscribers, "Number of newsletter subscribers to create")
	flag.IntVar(&opts.Messages, "messages", opts.Messages, "Number of contact messages to create")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Build data without writing it")
	shouldClean := flag.Bool("clean", true, "Clean seeded tables before seeding")
	fakerSeed := flag.Int64("seed", 0, "Faker seed (0 for random)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	s := seed.NewSeeder(db, seed.NewFactory(*fakerSeed))
	if *shouldClean && !opts.DryRun {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	sum, err := s.Run(ctx, opts)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	log.Printf("✓ %d properties, %d leads, %d posts, %d subscribers, %d messages",
		sum.Properties, sum.Leads, sum.Posts, sum.Subscribers, sum.Messages)

	indexer := search.NewIndexer(cfg.MeilisearchHost, cfg.MeilisearchAPIKey)
	if indexer.Enabled() && !opts.DryRun {
		if err := indexer.InitIndex(); err != nil {
			log.Printf("⚠️  Search index setup failed: %v", err)
		} else if err := search.NewScheduler(indexer, repository.NewPropertyRepository(db)).RunNow(ctx); err != nil {
			log.Printf("⚠️  Search reindex failed: %v", err)
		} else {
			log.Println("✓ Search index rebuilt")
		}
	}

	log.Println("✨ All done! Create an admin with: go run ./cmd/admin create <email> <name> <password>")
}
