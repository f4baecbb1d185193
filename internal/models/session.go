package models

import "strings"

// Theme is the caller's display preference, resolved once per request.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme normalises a raw preference, defaulting to light.
func ParseTheme(raw string) Theme {
	if strings.EqualFold(strings.TrimSpace(raw), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

// Session is the authenticated caller passed explicitly to services.
type Session struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Theme  Theme    `json:"theme"`
}

// Authenticated reports whether the session carries an identity.
func (s Session) Authenticated() bool {
	return s.UserID != "" && s.Role.Valid()
}
