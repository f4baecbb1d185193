package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email,omitempty"`
	Theme  Theme    `json:"theme,omitempty"`
	jwt.RegisteredClaims
}

// Session returns the request-scoped identity carried by the claims.
func (c *JWTClaims) Session() Session {
	if c == nil {
		return Session{}
	}
	return Session{UserID: c.UserID, Role: c.Role, Theme: ParseTheme(string(c.Theme))}
}
