package config

import (
	"strconv"
	"time"
)

// CacheConfig defines settings for the response cache middleware that
// fronts the read-heavy seat map endpoints.  When Enabled is false or no
// Redis client is configured, caching is disabled.  Only GET responses
// are cached; TTL is deliberately short because seat maps change on every
// allocation.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 15*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: atoi(envStr("CACHE_MAX_BODY_BYTES", "1048576")),
	}
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}
