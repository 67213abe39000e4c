// Package schema holds the raw upstream response shapes.
//
// The privileged gateway schema (authenticated session, upper-case keys) and
// the public REST schema (no session, lower-case keys) describe the same
// entities with different detail. Neither is exposed past the resolver; both
// are adapted into [models] records.
//
// Gateway scalars are inconsistently typed upstream (the same key may arrive as
// a JSON string or number), so they decode into [Text].
package schema
