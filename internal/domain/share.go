package domain

import "time"

// DefaultLetterStyle is applied when a share request omits the letter style.
const DefaultLetterStyle = "bg-rose-50"

// ShareLinkTTL is how long a share link stays claimable.
const ShareLinkTTL = 24 * time.Hour

// ShareInfo carries the letter and lifecycle state attached to a shared or
// gifted flower instance. On the sender's instance ExpiresAt and Claimed are
// set; on the receiver's copy only the letter snapshot and ReceivedAt are.
type ShareInfo struct {
	Token         string     `json:"token,omitempty"`
	LetterContent string     `json:"letterContent"`
	SenderName    string     `json:"senderName"`
	LetterStyle   string     `json:"letterStyle"`
	ExpiresAt     time.Time  `json:"expiresAt,omitempty"`
	ReceivedAt    *time.Time `json:"receivedAt,omitempty"`
	Claimed       bool       `json:"claimed"`
}

// Expired reports whether the share link is past its expiry at the given time.
func (s *ShareInfo) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
