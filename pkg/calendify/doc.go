// Package calendify is the service layer of the Calendify backend: account
// registration and login, calendar lifecycle, group membership, and event
// scheduling with the group availability scan.
//
// Every operation hangs off [App], which owns the store, the notifier, and
// the per-calendar advisory locks. Handlers in this package translate HTTP
// requests into App method calls and map the typed [Error] kinds back onto
// status codes.
//
// # Consistency model
//
// The store keeps users, calendars, and events as independent documents with
// no cross-document transactions. Multi-document operations (registration's
// default-calendar saga, the delete cascade, the denormalized calendar lists)
// are sequences of single-document writes: each step is atomic, the sequence
// is not, and every step is written to be idempotent so a failed sequence can
// be retried.
//
// # Double booking
//
// Event creation on a group calendar scans live documents and then writes;
// nothing in the store makes scan-plus-write atomic. A [keyedMutex] per
// calendar serializes that window within one process, which closes the race
// for a single server. Two server instances sharing a store can still admit
// overlapping events if both scans pass before either write lands. Closing
// that hole needs a lock in the store itself (or SurrealDB transactions
// scoped to the scan), which this service deliberately does not depend on.
package calendify
