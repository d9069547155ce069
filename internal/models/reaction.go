package models

import (
	"time"
)

type ReactionType string

const (
	ReactionLike  ReactionType = "Like"
	ReactionLove  ReactionType = "Love"
	ReactionHaha  ReactionType = "Haha"
	ReactionWow   ReactionType = "Wow"
	ReactionSad   ReactionType = "Sad"
	ReactionAngry ReactionType = "Angry"
)

var ReactionTypes = []ReactionType{
	ReactionLike,
	ReactionLove,
	ReactionHaha,
	ReactionWow,
	ReactionSad,
	ReactionAngry,
}

// ParseReactionType is case-sensitive: "like" is rejected.
func ParseReactionType(s string) (ReactionType, bool) {
	for _, t := range ReactionTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// CommentReaction is one user's reaction on one comment. ID order is list order;
// replacing the type keeps the row and therefore the position.
type CommentReaction struct {
	ID        uint         `gorm:"primaryKey" json:"-"`
	CommentID string       `gorm:"size:36;not null;uniqueIndex:idx_comment_reaction_user" json:"-"`
	UserID    string       `gorm:"size:36;not null;uniqueIndex:idx_comment_reaction_user" json:"user"`
	Type      ReactionType `gorm:"type:varchar(10);not null" json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
}
