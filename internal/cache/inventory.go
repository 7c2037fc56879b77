package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix   = "meetup:post:%d"
	CategoryListKey = "meetup:categories:active"
	TagListKey      = "meetup:tags:all"
)

const (
	PostTTL = 10 * time.Minute
	ListTTL = 30 * time.Minute
)

// PostKey is the key of a post detail payload, including comments and likes.
func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// Invalidate drops the given keys. Errors are ignored: a stale entry expires
// with its TTL.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoryListKey)
}

func InvalidateTags(ctx context.Context) {
	Invalidate(ctx, TagListKey)
}
