// Package oauth talks to third-party OAuth providers: it builds authorization
// URLs, exchanges authorization codes for provider access tokens, and fetches
// and normalizes the provider's user profile.
//
// The package knows nothing about local users or local tokens; mapping a
// Profile to a local account is the caller's job.
package oauth
