package repository

import (
	"testing"

	"lifora/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDiffVotes(t *testing.T) {
	before := []models.CommentVote{
		{ID: 1, UserID: "u1", Value: 1},
		{ID: 2, UserID: "u2", Value: -1},
		{ID: 3, UserID: "u3", Value: 1},
	}
	after := []models.CommentVote{
		{ID: 1, UserID: "u1", Value: 1}, // unchanged
		{ID: 2, UserID: "u2", Value: 1}, // switched
		{UserID: "u4", Value: -1},       // new
	}

	d := diffVotes(before, after)

	assert.Equal(t, []models.CommentVote{{UserID: "u4", Value: -1}}, d.create)
	assert.Equal(t, []models.CommentVote{{ID: 2, UserID: "u2", Value: 1}}, d.update)
	assert.Equal(t, []uint{3}, d.remove)
	assert.False(t, d.empty())
}

func TestDiffVotes_ReplacedRow(t *testing.T) {
	before := []models.CommentVote{{ID: 1, UserID: "u1", Value: 1}, {ID: 2, UserID: "u2", Value: -1}}
	after := []models.CommentVote{{ID: 2, UserID: "u2", Value: -1}, {UserID: "u1", Value: -1}}

	d := diffVotes(before, after)

	assert.Equal(t, []uint{1}, d.remove)
	assert.Equal(t, []models.CommentVote{{UserID: "u1", Value: -1}}, d.create)
	assert.Empty(t, d.update)
}

func TestDiffVotes_NoChange(t *testing.T) {
	votes := []models.CommentVote{{ID: 1, UserID: "u1", Value: 1}}
	assert.True(t, diffVotes(votes, votes).empty())
	assert.True(t, diffVotes(nil, nil).empty())
}

func TestDiffReactions(t *testing.T) {
	before := []models.CommentReaction{
		{ID: 1, UserID: "u1", Type: models.ReactionLike},
		{ID: 2, UserID: "u2", Type: models.ReactionWow},
	}
	after := []models.CommentReaction{
		{ID: 1, UserID: "u1", Type: models.ReactionLove},
		{UserID: "u3", Type: models.ReactionSad},
	}

	d := diffReactions(before, after)

	assert.Len(t, d.create, 1)
	assert.Equal(t, "u3", d.create[0].UserID)
	assert.Len(t, d.update, 1)
	assert.Equal(t, uint(1), d.update[0].ID)
	assert.Equal(t, models.ReactionLove, d.update[0].Type)
	assert.Equal(t, []uint{2}, d.remove)
}
