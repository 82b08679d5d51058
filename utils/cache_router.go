package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1

	CacheDownload = 3600      // one hour
	CachePhoto    = 7 * 86400 // stored photos never change
)

type CacheRouter struct {
	CacheTime int // seconds, defaults to CacheNoCache = 0
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCacheControl(c, cr.CacheTime)
		c.Next()
	}
}

// SetCacheControl overrides whatever CacheRouter set for this response.
// CacheCustom leaves the header alone.
func SetCacheControl(c *gin.Context, seconds int) {
	switch {
	case seconds == CacheCustom:
	case seconds <= CacheNoCache:
		c.Header("cache-control", "no-cache")
	default:
		c.Header("cache-control", "private, max-age="+strconv.Itoa(seconds))
	}
}
