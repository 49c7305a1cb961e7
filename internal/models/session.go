package models

import "time"

// Session is the logged-in state carried between portal calls.
type Session struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	User      UserInfo  `json:"user"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpired checks if session has expired. A zero ExpiresAt never expires.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

func (s *Session) IsAdmin() bool {
	return s.User.Role == RoleAdmin
}

// AuthorizationHeader returns the value for the Authorization header.
func (s *Session) AuthorizationHeader() string {
	tokenType := s.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + s.Token
}
