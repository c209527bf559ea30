// Package http implements the local control API of the sync client.
//
// The API lets a desktop shell or a script drive one sync session: trigger
// and inspect syncs, resolve conflicts, configure and authenticate the
// remote backend and clean up old remote versions. Tracing, access logging,
// compression and the optional bearer token are handled by middleware before
// requests reach the sync service. No response carries ciphertext or keys.
package http
