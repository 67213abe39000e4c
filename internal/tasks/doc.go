// Package tasks downloads resolved media to disk with real-time progress reporting.
//
// # Core Operation
//
// [DownloadEngine.Run] takes a [models.MediaIdentification] and:
//
//  1. Expands it into track ids: albums and playlists into their members,
//     artists into the members of every discography album
//  2. Resolves each track at the configured quality, threading the parent's
//     album tags and prefetched records
//  3. Skips tracks carrying a soft error (region, subscription, uploader)
//  4. Downloads the rest and moves each temp file into the output directory
//
// Tracks are processed by a small worker pool behind a shared rate limiter.
// One failed track never aborts the run; it is reported in the result.
//
// # Progress Reporting
//
// Progress is sent on a caller-supplied channel. Sends never block: a full
// channel drops the update.
//
// # Track Caching
//
// The optional [TrackCacher] records every delivered track. Cache errors are
// logged and otherwise ignored.
package tasks
