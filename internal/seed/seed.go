package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"meetup/internal/middleware"
	"meetup/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configure one seeding run.
type Options struct {
	Preset
	Seed int64
	// SkipBcrypt stores a cheap hash so large runs stay fast. Seeded accounts
	// still log in with DefaultPassword.
	SkipBcrypt bool
}

// Summary counts the rows a run created.
type Summary struct {
	Categories int
	Tags       int
	Users      int
	Posts      int
	Comments   int
	Likes      int
}

// Seeder populates a database with categories, tags, users and meetups.
type Seeder struct {
	db      *gorm.DB
	catalog *Catalog
}

func NewSeeder(db *gorm.DB, catalog *Catalog) *Seeder {
	return &Seeder{db: db, catalog: catalog}
}

// ClearAll removes every board row, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "clearing existing data")
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []func() error{
			func() error { return tx.Where("1 = 1").Delete(&models.Like{}).Error },
			func() error { return tx.Exec("DELETE FROM post_tags").Error },
			func() error { return tx.Where("parent_comment_id IS NOT NULL").Delete(&models.Comment{}).Error },
			func() error { return tx.Where("1 = 1").Delete(&models.Comment{}).Error },
			func() error { return tx.Where("1 = 1").Delete(&models.Post{}).Error },
			func() error { return tx.Where("1 = 1").Delete(&models.Tag{}).Error },
			func() error { return tx.Where("1 = 1").Delete(&models.Category{}).Error },
			func() error { return tx.Where("1 = 1").Delete(&models.User{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}

// Run seeds the catalog vocabulary (reusing existing rows) and then the
// generated users, posts, comments and likes.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	start := time.Now()
	f := NewFactory(opts.Seed, start)
	db := s.db.WithContext(ctx)

	categories, err := s.ensureCategories(db)
	if err != nil {
		return sum, fmt.Errorf("seed categories: %w", err)
	}
	sum.Categories = len(categories)

	tags, err := s.ensureTags(db)
	if err != nil {
		return sum, fmt.Errorf("seed tags: %w", err)
	}
	sum.Tags = len(tags)

	hash, err := passwordHash(opts.SkipBcrypt)
	if err != nil {
		return sum, err
	}
	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u := f.User(hash)
		if err := db.Create(u).Error; err != nil {
			return sum, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	if len(users) == 0 {
		return sum, nil
	}

	for i := 0; i < opts.Posts; i++ {
		author := users[f.Pick(len(users))]
		category := &categories[f.Pick(len(categories))]
		post := f.Post(author, category, tags)
		if err := db.Create(post).Error; err != nil {
			return sum, fmt.Errorf("seed post: %w", err)
		}
		sum.Posts++

		n, err := s.seedComments(db, f, users, post, opts.MaxCommentsPerPost)
		if err != nil {
			return sum, err
		}
		sum.Comments += n

		for _, u := range users {
			if !f.Chance(opts.LikeChance) {
				continue
			}
			if err := db.Create(&models.Like{UserID: u.ID, PostID: post.ID}).Error; err != nil {
				return sum, fmt.Errorf("seed like: %w", err)
			}
			sum.Likes++
		}

		if (i+1)%100 == 0 {
			middleware.Logger.InfoContext(ctx, "seeding posts", slog.Int("done", i+1), slog.Int("total", opts.Posts))
		}
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		slog.Int("users", sum.Users),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("likes", sum.Likes),
		slog.Duration("elapsed", time.Since(start)),
	)
	return sum, nil
}

// seedComments writes up to maxComments comments; about a third reply to an earlier
// top-level comment so threads stay two levels deep.
func (s *Seeder) seedComments(db *gorm.DB, f *Factory, users []*models.User, post *models.Post, maxComments int) (int, error) {
	if maxComments <= 0 {
		return 0, nil
	}
	var roots []*models.Comment
	count := f.Pick(maxComments + 1)
	for i := 0; i < count; i++ {
		var parent *models.Comment
		if len(roots) > 0 && f.Chance(0.33) {
			parent = roots[f.Pick(len(roots))]
		}
		c := f.Comment(users[f.Pick(len(users))], post, parent)
		if err := db.Create(c).Error; err != nil {
			return i, fmt.Errorf("seed comment: %w", err)
		}
		if parent == nil {
			roots = append(roots, c)
		}
	}
	return count, nil
}

func (s *Seeder) ensureCategories(db *gorm.DB) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.catalog.Categories))
	for _, title := range s.catalog.Categories {
		var c models.Category
		if err := db.Where(models.Category{Title: title}).
			Attrs(models.Category{IsActive: true}).
			FirstOrCreate(&c).Error; err != nil {
			return nil, err
		}
		if !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no active categories available")
	}
	return out, nil
}

func (s *Seeder) ensureTags(db *gorm.DB) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(s.catalog.Tags))
	for _, title := range s.catalog.Tags {
		var t models.Tag
		if err := db.Where(models.Tag{Title: title}).FirstOrCreate(&t).Error; err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func passwordHash(skipBcrypt bool) (string, error) {
	cost := bcrypt.DefaultCost
	if skipBcrypt {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	return string(hash), nil
}
