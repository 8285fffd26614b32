// Package client contains the client-side building blocks that talk to the
// recipe backend and bootstrap local storage.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): auth
//     (Login, Register, Me), catalog reads (FilterOptions, Search, Recipe,
//     Random, Favorites), mutations (CreateRecipe, Rate, ToggleFavorite) and
//     the auxiliary DocumentURL, DishOfTheDay and Ping.
//  2. A concrete JSON-over-HTTP implementation (see RESTClient) built on
//     resty. It injects the bearer token supplied by an Auth, tags every
//     request with an X-Request-Id, and notifies the Auth on 401.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every failed call returns an *APIError whose Message is user-facing. Its
// kind can be matched with errors.Is against ErrUnauthorized, ErrForbidden,
// ErrNotFound, ErrRateLimited, ErrServer, ErrValidation, ErrUnavailable and
// ErrMalformed. Cancellation of the caller's context is returned as the
// plain context error. There are no retries.
//
// # Concurrency & Contexts
//
// RESTClient is safe for concurrent use. All network operations accept a
// context.Context and honor cancellation.
package client
