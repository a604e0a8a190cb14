// File: utils/constants.go
package utils

import "time"

// HoldDuration is the fixed lifetime of a slot hold. Expiry is always
// creation time + HoldDuration; clients use it to render a countdown.
const HoldDuration = 300 * time.Second

// HoldStorageGrace is how long an expired hold may linger in storage past its
// logical expiry before the reaper removes it. Readers never rely on physical
// removal; they re-apply the expiresAt predicate themselves.
const HoldStorageGrace = 60 * time.Second

// TenantCachePrefix is the prefix used for Redis tenant-validity cache keys.
const TenantCachePrefix = "tenant:"

// TenantCacheTTL is the time-to-live for tenant-validity cache entries.
const TenantCacheTTL = 10 * time.Minute
