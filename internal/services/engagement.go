package services

import (
	"lifora/internal/models"
)

// ApplyVote runs the per-user vote state machine on c:
//
//	neither   + up   -> upvoted      neither   + down -> downvoted
//	upvoted   + up   -> neither      upvoted   + down -> downvoted
//	downvoted + down -> neither      downvoted + up   -> upvoted
//
// A user holds at most one vote row, so the up and down sets stay disjoint.
// Switching sides drops the old row and appends a fresh one at the end.
func ApplyVote(c *models.Comment, userID string, voteType string) error {
	vt, ok := models.ParseVoteType(voteType)
	if !ok {
		return InvalidArgument("voteType must be 'up' or 'down'")
	}
	if userID == "" {
		return Unauthorized("missing requester")
	}

	value := vt.Value()
	for i, v := range c.Votes {
		if v.UserID != userID {
			continue
		}
		c.Votes = append(c.Votes[:i:i], c.Votes[i+1:]...)
		if v.Value == value {
			return nil
		}
		break
	}

	c.Votes = append(c.Votes, models.CommentVote{
		CommentID: c.ID,
		UserID:    userID,
		Value:     value,
	})
	return nil
}

// ApplyReaction appends, replaces in place, or toggles off the user's reaction.
func ApplyReaction(c *models.Comment, userID string, reactionType string) error {
	rt, ok := models.ParseReactionType(reactionType)
	if !ok {
		return InvalidArgument("reactionType must be one of Like, Love, Haha, Wow, Sad, Angry")
	}
	if userID == "" {
		return Unauthorized("missing requester")
	}

	for i, r := range c.Reactions {
		if r.UserID != userID {
			continue
		}
		if r.Type == rt {
			c.Reactions = append(c.Reactions[:i:i], c.Reactions[i+1:]...)
			return nil
		}
		c.Reactions[i].Type = rt
		return nil
	}

	c.Reactions = append(c.Reactions, models.CommentReaction{
		CommentID: c.ID,
		UserID:    userID,
		Type:      rt,
	})
	return nil
}
