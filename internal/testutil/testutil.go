// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"meetup/internal/database"
	"meetup/internal/middleware"
	"meetup/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// JWT settings shared by handler tests.
var TestJWT = middleware.JWTConfig{
	Secret:   "meetup-test-secret-0123456789abcdef",
	Issuer:   "meetup-api",
	Audience: "meetup-client",
}

var seq atomic.Int64

// NewSQLiteDB returns a migrated, private in-memory database. A single pooled
// connection keeps the schema alive for the life of the test.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open("file::memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(context.Background(), db))
	return db
}

// MintToken signs an access token for userID the way the account service does.
func MintToken(t testing.TB, cfg middleware.JWTConfig, userID uint) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": cfg.Issuer,
		"aud": cfg.Audience,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.Secret))
	require.NoError(t, err)
	return signed
}

// CreateUser inserts an active account with a unique email.
func CreateUser(t testing.TB, db *gorm.DB) *models.User {
	t.Helper()
	n := seq.Add(1)
	u := &models.User{
		Email:     fmt.Sprintf("member%d@example.com", n),
		FirstName: "Test",
		LastName:  fmt.Sprintf("Member%d", n),
		Password:  "not-a-real-hash",
		IsActive:  true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateCategory inserts an active category.
func CreateCategory(t testing.TB, db *gorm.DB, title string) *models.Category {
	t.Helper()
	c := &models.Category{Title: title, IsActive: true}
	require.NoError(t, db.Create(c).Error)
	return c
}

// PostOption customizes a fixture post before insert.
type PostOption func(*models.Post)

func WithTags(tags ...models.Tag) PostOption {
	return func(p *models.Post) { p.Tags = tags }
}

func WithDate(d models.Date) PostOption {
	return func(p *models.Post) { p.Date = d }
}

func WithLocation(loc string) PostOption {
	return func(p *models.Post) { p.Location = loc }
}

func WithTimeOfDay(tod models.TimeOfDay) PostOption {
	return func(p *models.Post) { p.TimeOfDay = tod }
}

func WithCreated(ts time.Time) PostOption {
	return func(p *models.Post) { p.CreatedDate = ts }
}

// CreatePost inserts an active post by author in category.
func CreatePost(t testing.TB, db *gorm.DB, author *models.User, category *models.Category, opts ...PostOption) *models.Post {
	t.Helper()
	n := seq.Add(1)
	p := &models.Post{
		Title:     fmt.Sprintf("Meetup %d", n),
		Content:   "Bring snacks",
		Location:  "Central Library",
		Capacity:  10,
		Date:      models.NewDate(2030, time.March, 14),
		TimeOfDay: models.Evening,
		IsActive:  true,
	}
	if author != nil {
		p.AuthorID = &author.ID
	}
	if category != nil {
		p.CategoryID = &category.ID
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
