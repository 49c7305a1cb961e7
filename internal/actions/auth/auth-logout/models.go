package authlogout

import "time"

type Input struct {
	Reason string `json:"reason,omitempty"`
}

type Output struct {
	Success bool `json:"success"`
	// WasLoggedIn is false when there was no live session to clear.
	WasLoggedIn bool      `json:"wasLoggedIn"`
	Message     string    `json:"message"`
	LogoutAt    time.Time `json:"logoutAt"`
}
