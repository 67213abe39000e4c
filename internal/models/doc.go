// Package models defines the canonical records produced by the resolver.
//
// Records are provider-neutral: both upstream schemas (privileged gateway and
// public REST) are mapped into the same shapes.
//
//   - [Track] : a single resolved track with negotiated format and soft error
//   - [Album], [Playlist], [Artist] : collections holding member ids, resolved lazily
//   - [SearchResult] : lightweight, entity-agnostic search hit
//   - [Credit], [Cover], [Lyrics], [Download] : dependent lookups
//
// Data threaded from a parent resolution into a child lookup travels in typed
// payloads ([TrackParams], [DownloadParams], [CoverParams], [CreditsParams],
// [LyricsParams]) rather than untyped maps.
package models
