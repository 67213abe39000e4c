// Package services defines the [Remote] catalog collaborator and implements it
// with [DeezerService].
//
// # Gateway
//
// Privileged lookups go through the gateway ("gw-light") API. Every call is a
// POST carrying the method name and the session's API token; the response
// envelope has an "error" field (empty array on success, an object otherwise)
// and a "results" field holding the payload. Gateway keys are upper-case and
// decode into the types of package schema.
//
// # Public API
//
// Unauthenticated lookups use the public REST API, which reports errors with
// status 200 and an "error" object. Code 800 maps to [shared.ErrNotFound].
//
// # Login
//
// [DeezerService.LoginWithToken] stores the session cookie in the client's
// jar and reads the account profile, API token and license token.
// [DeezerService.LoginWithPassword] obtains an OAuth access token from the
// connect endpoint, opens a web session with one bearer-authenticated call via
// [oauth2.NewClient], then asks the gateway for a session token.
//
// # Media
//
// [DeezerService.TrackURL] exchanges a track token for a stream URL and
// [DeezerService.Download] writes the stream to disk, decrypting every third
// 2048-byte stripe with Blowfish-CBC.
//
// All outbound requests share one [rate.Limiter].
package services
