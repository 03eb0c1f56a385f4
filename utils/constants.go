// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 24 * time.Hour

// AuthTokenTTL is the lifetime of issued JWT tokens.
const AuthTokenTTL = 24 * time.Hour
