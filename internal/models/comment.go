package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is the comment aggregate: the comment row together with its votes and reactions.
// Post and author are referenced by id only.
type Comment struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	PostID          string    `gorm:"size:64;not null;index:idx_comments_post_created,priority:1" json:"post"`
	ParentCommentID *string   `gorm:"size:36;index" json:"parentComment"` // Nullable for top-level comments
	AuthorID        string    `gorm:"size:36;not null;index" json:"author"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	CreatedAt       time.Time `gorm:"index:idx_comments_post_created,priority:2" json:"createdAt"`

	Votes     []CommentVote     `gorm:"foreignKey:CommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Reactions []CommentReaction `gorm:"foreignKey:CommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Upvoters returns voter ids with a positive vote, in voting order.
func (c *Comment) Upvoters() []string {
	return c.voters(VoteValueUp)
}

// Downvoters returns voter ids with a negative vote, in voting order.
func (c *Comment) Downvoters() []string {
	return c.voters(VoteValueDown)
}

func (c *Comment) voters(value int) []string {
	out := make([]string, 0, len(c.Votes))
	for _, v := range c.Votes {
		if v.Value == value {
			out = append(out, v.UserID)
		}
	}
	return out
}

// Score is |upvotes| - |downvotes|. It is never stored.
func (c *Comment) Score() int {
	score := 0
	for _, v := range c.Votes {
		score += v.Value
	}
	return score
}

// Clone returns a deep copy so callers can diff before/after states.
func (c *Comment) Clone() *Comment {
	cp := *c
	if c.ParentCommentID != nil {
		parent := *c.ParentCommentID
		cp.ParentCommentID = &parent
	}
	if c.Votes != nil {
		cp.Votes = make([]CommentVote, len(c.Votes))
		copy(cp.Votes, c.Votes)
	}
	if c.Reactions != nil {
		cp.Reactions = make([]CommentReaction, len(c.Reactions))
		copy(cp.Reactions, c.Reactions)
	}
	return &cp
}
