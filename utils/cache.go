package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultCacheTTL = 10 * time.Minute

// Key prefixes for cached public responses. Admin writes invalidate by prefix.
const (
	CachePrefixPortfolio   = "cache:portfolio:"
	CachePrefixBlog        = "cache:blog:"
	CachePrefixProjects    = "cache:projects:"
	CachePrefixSkills      = "cache:skills:"
	CachePrefixCaseStudies = "cache:case-studies:"
	CachePrefixSections    = "cache:sections:"
	CachePrefixFeeds       = "cache:feeds:"
)

// CacheGetBytes returns cached bytes for a key from Redis.
func CacheGetBytes(key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		return nil, false
	}
	return b, true
}

// CacheSetBytes stores bytes; a non-positive ttl uses the default.
func CacheSetBytes(key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// CacheSetJSON marshals v and stores JSON bytes.
func CacheSetJSON(key string, v interface{}, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	CacheSetBytes(key, b, ttl)
}

// ServeCached writes a cached JSON envelope for key and reports whether it did.
func ServeCached(ctx *gin.Context, key string) bool {
	b, ok := CacheGetBytes(key)
	if !ok {
		return false
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
	return true
}

// SuccessCached responds like Success and stores the envelope under key.
func SuccessCached(ctx *gin.Context, key string, data interface{}) {
	CacheSetJSON(key, JSONResponse{Code: 0, Message: "success", Data: data}, 0)
	Success(ctx, data)
}

// InvalidateByPrefix deletes keys that match any of the given prefixes using SCAN.
func InvalidateByPrefix(prefixes ...string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, prefix := range prefixes {
		var cursor uint64
		for i := 0; i < 10; i++ { // bounded rounds
			keys, cur, err := rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
			if err != nil {
				Sugar.Warnf("cache invalidate failed prefix=%s err=%v", prefix, err)
				break
			}
			cursor = cur
			if len(keys) > 0 {
				pipe := rc.Pipeline()
				for _, k := range keys {
					pipe.Del(ctx, k)
				}
				_, _ = pipe.Exec(ctx)
			}
			if cursor == 0 {
				break
			}
		}
	}
}
