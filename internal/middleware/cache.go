package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	cacheHitKey = "cache_hit"
	// CacheHeader tells clients whether a list response came from the cache.
	CacheHeader = "X-Cache"
)

// SetCacheHit records the lookup outcome and sets the X-Cache header. Call it before
// the body is written.
func SetCacheHit(c *gin.Context, hit bool) {
	c.Set(cacheHitKey, hit)
	if hit {
		c.Header(CacheHeader, "HIT")
		return
	}
	c.Header(CacheHeader, "MISS")
}

// CacheHit reports the outcome stored by SetCacheHit; ok is false when none was recorded.
func CacheHit(c *gin.Context) (hit, ok bool) {
	if c == nil {
		return false, false
	}
	v, exists := c.Get(cacheHitKey)
	if !exists {
		return false, false
	}
	hit, ok = v.(bool)
	return hit, ok
}
