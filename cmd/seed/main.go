// Command seed populates the database with demo meetups.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"meetup/internal/bootstrap"
	"meetup/internal/config"
	"meetup/internal/seed"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	preset := flag.String("preset", "small", "Seed preset (tiny, small, demo)")
	users := flag.Int("users", 0, "Override the preset's user count")
	posts := flag.Int("posts", 0, "Override the preset's post count")
	clean := flag.Bool("clean", false, "Delete all existing board data first")
	seedValue := flag.Int64("rand", time.Now().UnixNano(), "Random seed for reproducible data")
	fast := flag.Bool("fast", true, "Use a minimum-cost password hash")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	catalog, err := seed.LoadCatalog()
	if err != nil {
		return err
	}
	p, err := catalog.Preset(*preset)
	if err != nil {
		return err
	}
	if *users > 0 {
		p.Users = *users
	}
	if *posts > 0 {
		p.Posts = *posts
	}

	s := seed.NewSeeder(rt.DB, catalog)
	if *clean {
		if err := s.ClearAll(ctx); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	sum, err := s.Run(ctx, seed.Options{Preset: p, Seed: *seedValue, SkipBcrypt: *fast})
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Printf("seeded %d categories, %d tags, %d users, %d posts, %d comments, %d likes",
		sum.Categories, sum.Tags, sum.Users, sum.Posts, sum.Comments, sum.Likes)
	log.Printf("all seeded users have the password: %s", seed.DefaultPassword)
	return nil
}
