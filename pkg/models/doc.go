// Package models defines the domain entities of the Calendify backend.
//
// Three entities live in three independent document collections:
//
//   - [User]: an account with credentials, an email address for notifications,
//     and a reference to its undeletable default calendar
//   - [Calendar]: a personal calendar (single member, the owner) or a group
//     calendar (owner plus up to four more members)
//   - [Event]: a half-open time interval [StartTime, EndTime) on exactly one
//     calendar, owned by its creator
//
// # Typed IDs
//
// [UserID], [CalendarID] and [EventID] wrap a UUID and know their collection
// at compile time. They marshal to plain UUID strings in JSON and to SurrealDB
// RecordIDs (CBOR tag 8, encoded as [table, id]) on the wire, so the same
// structs serve both the HTTP API and the document store without translation
// types.
//
// # No store-level integrity
//
// The document store enforces none of the relationships between the three
// collections. Every referential invariant (owner in members, membership cap,
// default-calendar uniqueness, event-to-calendar attachment) is the
// responsibility of the service layer in pkg/calendify, which checks before
// every write.
package models
