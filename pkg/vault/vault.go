// Package vault defines the backend-agnostic contract for retrieving
// application secrets as decoded environment entries.
//
// A Vault addresses secrets by name and hands back ordered key/value pairs
// ready for environment injection. Backends differ in where the bytes come
// from (Google Secret Manager, a local JSON document, ...) but callers only
// depend on this interface, so adding a backend never touches call sites.
//
// Every retrieval call is self-contained: implementations resolve credentials
// and establish their transport fresh on each call and cache nothing in
// between. That trades a little efficiency for the guarantee that no call can
// observe a stale credential or a half-torn-down connection, and it means a
// single Vault value is safe for concurrent use without locking.
//
// Retries, timeouts, and cancellation are the caller's responsibility; pass a
// context with a deadline if you need one. Implementations never retry
// internally and surface every failure immediately as one of the error types
// in this package.
package vault

import "context"

// Pair is a single decoded environment entry.
type Pair struct {
	Key   string
	Value string
}

// Vault retrieves secrets and exposes them as environment entries.
//
// Implementations must be safe for concurrent use. Not every backend supports
// every operation: a capability a backend does not provide fails with
// UnimplementedError rather than silently returning nothing, so callers can
// detect and handle the gap.
type Vault interface {
	// DownloadPrefixed retrieves all entries whose names share the given
	// prefix. Backends that cannot enumerate secrets return
	// UnimplementedError for any input, including the empty prefix.
	DownloadPrefixed(ctx context.Context, prefix string) ([]Pair, error)

	// DownloadJSON retrieves exactly one secret, interprets its payload as a
	// JSON object, and decodes it into environment entries. An absent or
	// empty payload is EmptySecretError, never an empty result.
	DownloadJSON(ctx context.Context, secretName string) ([]Pair, error)
}
