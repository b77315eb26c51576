package constants

import "time"

// Cache hashes live in the USER cache database; CacheBuilder adds the colon.
const (
	UserCachePrefix         = "user"
	UserCacheExpiry         = 24 * time.Hour
	UserSettingsCachePrefix = "user_settings"
	UserSettingsCacheExpiry = 24 * time.Hour
)
