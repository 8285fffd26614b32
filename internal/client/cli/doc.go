// Package cli provides the interactive recipes command-line client.
//
// It wires configuration, the local preferences database, the API client
// and the state controllers behind a REPL. A terminalView renders whatever
// the controllers publish; listings triggered by a command are awaited so
// they print before the next prompt.
//
// Key features:
//   - Search and filters, with a shareable address (url) and back navigation
//   - Recipe detail, PDF link, random recipe and dish of the day
//   - Login / Register / Logout, with the session restored at startup
//   - Favorites, ratings and new recipes for signed-in users
//   - Export of the displayed listing to .xlsx
//   - Light and dark theme, persisted between runs
//   - Request and search counters (stats)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
