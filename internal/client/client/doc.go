// Package client is the remote directory client of the console.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the
//     directory API: Authenticate, ListEntries, CreateEntry, UpdateEntry,
//     DeleteEntry.
//  2. A JSON/REST implementation (see HTTPClient) that injects the API key
//     and bearer token headers and maps HTTP outcomes to a small error
//     taxonomy.
//
// # Error Handling
//
// Every failure is an *Error with a Kind: KindNetwork (no response),
// KindAuth (401/403) or KindServer (other non-2xx, undecodable body).
// The sentinels ErrNetwork, ErrAuth and ErrServer match with errors.Is.
// Server-provided messages are kept verbatim in Error.Message.
//
// # Session expiry
//
// A 401 on anything but Authenticate is a session expiry. The client does
// not clear tokens or navigate itself; it publishes events.SessionExpired
// through the configured ExpiryPublisher and lets subscribers react.
//
// A 401 on Authenticate means bad credentials and publishes nothing.
package client
