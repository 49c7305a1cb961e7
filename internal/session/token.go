package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"labportal/internal/models"
)

// tokenClaims mirrors what the backend puts in its access tokens.
type tokenClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// FromGrant turns a login response into a Session. The token signature cannot
// be checked client side, so the claims are read unverified and only fill in
// what the response body left out: expiry when expiresIn is 0, role when the
// user block has none.
func FromGrant(grant *models.LoginResponse, now time.Time) *models.Session {
	s := &models.Session{
		Token:     grant.AccessToken,
		TokenType: grant.TokenType,
		User:      grant.User,
		IssuedAt:  now,
	}
	if grant.ExpiresIn > 0 {
		s.ExpiresAt = now.Add(time.Duration(grant.ExpiresIn) * time.Second)
	}

	claims, ok := readClaims(grant.AccessToken)
	if !ok {
		return s
	}
	if s.ExpiresAt.IsZero() && claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	if s.User.Role == "" {
		s.User.Role = claims.Role
	}
	if s.User.Email == "" {
		s.User.Email = claims.Email
	}
	if s.User.ID == 0 {
		s.User.ID = claims.UserID
	}
	return s
}

func readClaims(token string) (*tokenClaims, bool) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
