// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"strings"
	"time"

	"meetup/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is the plain-text password of every seeded account.
const DefaultPassword = "Meetup-Seed-Passw0rd!"

// Factory builds domain entities from a seeded faker. It does not persist.
type Factory struct {
	faker *gofakeit.Faker
	seed  int64
	now   time.Time
	n     int
}

// NewFactory returns a Factory. The same seed yields the same entities.
func NewFactory(seed int64, now time.Time) *Factory {
	return &Factory{faker: gofakeit.New(seed), seed: seed, now: now}
}

// User builds an active, verified account. passwordHash is stored as-is.
func (f *Factory) User(passwordHash string) *models.User {
	f.n++
	first := f.faker.FirstName()
	last := f.faker.LastName()
	return &models.User{
		Email:     strings.ToLower(fmt.Sprintf("%s.%s.%d.%d@example.com", first, last, f.seed, f.n)),
		FirstName: truncate(first, 50),
		LastName:  truncate(last, 50),
		Password:  passwordHash,
		IsActive:  true,
		Verified:  true,
	}
}

// Post builds an upcoming meetup in category. Tags are picked from tags.
func (f *Factory) Post(author *models.User, category *models.Category, tags []models.Tag) *models.Post {
	daysAhead := f.faker.Number(1, 90)
	date := f.now.AddDate(0, 0, daysAhead)

	post := &models.Post{
		Title:     truncate(strings.TrimSuffix(f.faker.Sentence(f.faker.Number(2, 5)), "."), models.MaxTitleLength),
		Content:   f.faker.Paragraph(1, f.faker.Number(1, 4), 12, " "),
		Location:  truncate(fmt.Sprintf("%s, %s", f.faker.Street(), f.faker.City()), models.MaxLocationLength),
		Capacity:  f.faker.Number(2, 40),
		Date:      models.NewDate(date.Year(), date.Month(), date.Day()),
		TimeOfDay: models.TimeOfDay(f.faker.Number(int(models.Morning), int(models.Evening))),
		IsActive:  true,
		// spread creation over the last month so list ordering is meaningful
		CreatedDate: f.now.Add(-time.Duration(f.faker.Number(0, 30*24*60)) * time.Minute),
		AuthorID:    &author.ID,
		CategoryID:  &category.ID,
	}
	post.Tags = f.pickTags(tags, f.faker.Number(0, 3))
	return post
}

// Comment builds an active comment on post, optionally replying to parent.
func (f *Factory) Comment(author *models.User, post *models.Post, parent *models.Comment) *models.Comment {
	c := &models.Comment{
		Content:     f.faker.Sentence(f.faker.Number(3, 15)),
		IsActive:    true,
		CreatedDate: post.CreatedDate.Add(time.Duration(f.faker.Number(1, 72*60)) * time.Minute),
		PostID:      post.ID,
		AuthorID:    &author.ID,
	}
	if parent != nil {
		c.ParentCommentID = &parent.ID
	}
	return c
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64() < p
}

// Pick returns a random index below n.
func (f *Factory) Pick(n int) int {
	return f.faker.Number(0, n-1)
}

func (f *Factory) pickTags(tags []models.Tag, count int) []models.Tag {
	if count > len(tags) {
		count = len(tags)
	}
	picked := make([]models.Tag, 0, count)
	seen := make(map[uint]bool, count)
	for len(picked) < count {
		t := tags[f.Pick(len(tags))]
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		picked = append(picked, t)
	}
	return picked
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit]))
}
