package domain

import "time"

// User represents a registered gardener account.
// SNSID and Provider together identify the external login (unique pair).
type User struct {
	ID           string    `json:"id"`
	SNSID        string    `json:"snsId"`
	Provider     string    `json:"provider"`
	Nickname     string    `json:"nickname"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Points       int       `json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
}

// GuestOwnerID is the placeholder owner for instances created by the
// unauthenticated share flow.
const GuestOwnerID = "guest"

// DefaultProvider is the login provider assumed when none is recorded.
const DefaultProvider = "kakao"
