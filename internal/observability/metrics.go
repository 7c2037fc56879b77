// Package observability owns the Prometheus collectors and the OpenTelemetry
// tracer provider.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by command name.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetup_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// DatabaseQueryLatency records database statement latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meetup_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CacheLookups counts cache-aside lookups by outcome (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetup_cache_lookups_total",
		Help: "Cache lookups by key family and outcome",
	}, []string{"family", "result"})

	// DomainEvents counts board writes by event type (post.created, like.deleted, ...).
	DomainEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetup_domain_events_total",
		Help: "Board writes by event type",
	}, []string{"event"})

	// LikeRejections counts like attempts rejected by the uniqueness rule.
	LikeRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetup_like_duplicates_total",
		Help: "Like attempts rejected because the user already liked the post",
	})
)

const startedAtKey = "observability:started_at"

// RegisterQueryMetrics hooks GORM callbacks so every statement lands in
// DatabaseQueryLatency.
func RegisterQueryMetrics(db *gorm.DB) error {
	cb := db.Callback()
	steps := []struct {
		name   string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, s := range steps {
		op := s.name
		if err := s.before("metrics:before_"+op, func(tx *gorm.DB) {
			tx.InstanceSet(startedAtKey, time.Now())
		}); err != nil {
			return err
		}
		if err := s.after("metrics:after_"+op, func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startedAtKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			DatabaseQueryLatency.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
		}); err != nil {
			return err
		}
	}
	return nil
}
