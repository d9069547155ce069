package models

import (
	"time"
)

const (
	VoteValueUp   = 1
	VoteValueDown = -1
)

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// ParseVoteType accepts exactly "up" or "down".
func ParseVoteType(s string) (VoteType, bool) {
	switch VoteType(s) {
	case VoteUp, VoteDown:
		return VoteType(s), true
	}
	return "", false
}

// Value maps the vote type to the stored value: 1 or -1.
func (t VoteType) Value() int {
	if t == VoteDown {
		return VoteValueDown
	}
	return VoteValueUp
}

// CommentVote is one user's vote on one comment. The unique index keeps a user
// in at most one of the up/down sets.
type CommentVote struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CommentID string    `gorm:"size:36;not null;uniqueIndex:idx_comment_vote_user" json:"-"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_comment_vote_user" json:"user"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"createdAt"`
}
