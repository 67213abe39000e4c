// Package repositories implements persistence for session state and the
// resolved-track cache.
//
// Key Implementations:
//   - [SettingsRepository] : SQLite key/value settings, including the session token
//   - [RedisTokenStore] : Redis-backed session token for shared deployments
//   - [TrackRepository] : SQLite cache of resolved tracks, looked up by upstream id or ISRC
//   - [TrackCacheAdapter] : records finished downloads into the track cache
//
// [SettingsRepository] and [RedisTokenStore] both satisfy session.TokenStore.
package repositories
