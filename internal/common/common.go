// Package common contains constants and tiny helpers shared by the client
// packages.
package common

// RequestIDHeaderName carries a per-call correlation id on outbound requests.
const RequestIDHeaderName = "X-Request-Id"

// Keys of the persisted preferences. They mirror the browser client's
// localStorage keys so exported profiles stay recognisable.
const (
	TokenKey    = "authToken"
	ThemeKey    = "theme"
	LastUserKey = "lastUser"
)

// Theme values accepted for ThemeKey.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)
