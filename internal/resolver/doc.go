// Package resolver turns catalog ids into canonical records.
//
// Every operation asks the session for its mode once, at entry. With a
// session the [Resolver] reads the privileged gateway schema, negotiates a
// stream format for tracks and fills the typed payloads that dependent
// lookups (cover, credits, lyrics, download) consume. Without credentials it
// falls back to the public schema and attaches [PublicNotice] as a soft error.
//
// Each schema has one small adapter per entity (privileged.go, public.go);
// both produce the same models records.
//
// [Resolver.Search] maps hits of either schema into [models.SearchResult].
// Enrichment (previews, thumbnails, playlist covers) is best-effort and
// bounded: track hits share one batched public lookup and only the first
// [PlaylistEnrichLimit] playlist hits get a cover lookup.
//
// [Locator] parses catalog URLs, following one short-link redirect.
package resolver
