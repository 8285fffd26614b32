// Package services holds the client's state controllers.
//
// # Overview
//
//   - SessionStore owns the token and the signed-in user, persists the token
//     and publishes every transition to subscribers.
//   - SearchController owns the filter state, keeps it in sync with the
//     navigation history and drives listing requests: debounced on filter
//     changes, immediate on Refresh, Reset and Back.
//   - MutationController runs the state-changing actions (favorite, rating,
//     recipe creation) and the detail/random/PDF flows.
//   - Toaster is the single notification slot with auto-dismiss.
//
// Controllers publish to a View and never render anything themselves.
//
// # Concurrency
//
// All controllers are safe for concurrent use. Listing requests run on
// their own goroutines; a response is applied only if it carries the
// current request epoch.
package services
