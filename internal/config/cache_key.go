package config

import "fmt"

// ResultCacheKey returns the Redis key for a computed result, keyed by the
// SHA-256 digest of the uploaded file so identical uploads hit the cache.
func ResultCacheKey(digest string) string {
	return fmt.Sprintf("result:file:%s", digest)
}

// StudentResultKey returns the Redis key for a persisted result lookup.
func StudentResultKey(rollNo string, semester int) string {
	return fmt.Sprintf("result:student:%s:%d", rollNo, semester)
}
