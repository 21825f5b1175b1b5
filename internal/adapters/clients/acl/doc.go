// Package acl is the anti-corruption layer between the remote quote service
// and the domain.
//
// External DTOs stay unexported in this package. Everything that crosses
// the boundary is a [domain.Quote] or a domain error:
//
//   - remote posts become quotes with id "server-<id>" in category "Server"
//   - posts that do not translate to a valid quote are dropped, not returned
//   - every transport failure, non-2xx status, or undecodable body becomes
//     a [domain.NetworkError]
//
// The remote is best-effort. Callers log and count failures and never
// surface them as user-facing errors.
package acl
