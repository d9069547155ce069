package services

import (
	"time"

	"lifora/internal/models"
	"lifora/internal/utils"
)

type ReactionView struct {
	User string              `json:"user"`
	Type models.ReactionType `json:"type"`
}

// CommentView is the response shape of a comment with its author joined in.
type CommentView struct {
	ID            string                `json:"id"`
	Post          string                `json:"post"`
	ParentComment *string               `json:"parentComment"`
	Author        *models.AuthorProfile `json:"author"`
	Content       string                `json:"content"`
	ContentHTML   string                `json:"contentHtml"`
	Upvotes       []string              `json:"upvotes"`
	Downvotes     []string              `json:"downvotes"`
	Score         int                   `json:"score"`
	Reactions     []ReactionView        `json:"reactions"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// newCommentView builds the view; when the author is unknown to the directory
// the author carries only its id.
func newCommentView(c *models.Comment, profiles map[string]models.AuthorProfile) CommentView {
	author, ok := profiles[c.AuthorID]
	if !ok {
		author = models.AuthorProfile{ID: c.AuthorID}
	}

	reactions := make([]ReactionView, 0, len(c.Reactions))
	for _, r := range c.Reactions {
		reactions = append(reactions, ReactionView{User: r.UserID, Type: r.Type})
	}

	return CommentView{
		ID:            c.ID,
		Post:          c.PostID,
		ParentComment: c.ParentCommentID,
		Author:        &author,
		Content:       c.Content,
		ContentHTML:   utils.RenderMarkdown(c.Content),
		Upvotes:       c.Upvoters(),
		Downvotes:     c.Downvoters(),
		Score:         c.Score(),
		Reactions:     reactions,
		CreatedAt:     c.CreatedAt,
	}
}
