package repository

import "lifora/internal/models"

type voteDiff struct {
	create []models.CommentVote
	update []models.CommentVote
	remove []uint
}

// diffVotes compares two vote lists by row id. Rows without an id are new,
// so a replaced vote shows up as one removal plus one creation.
func diffVotes(before, after []models.CommentVote) voteDiff {
	var d voteDiff
	prev := make(map[uint]models.CommentVote, len(before))
	for _, v := range before {
		prev[v.ID] = v
	}
	seen := make(map[uint]bool, len(after))
	for _, v := range after {
		if v.ID == 0 {
			d.create = append(d.create, v)
			continue
		}
		seen[v.ID] = true
		if old, ok := prev[v.ID]; ok && old.Value != v.Value {
			d.update = append(d.update, v)
		}
	}
	for _, v := range before {
		if !seen[v.ID] {
			d.remove = append(d.remove, v.ID)
		}
	}
	return d
}

func (d voteDiff) empty() bool {
	return len(d.create) == 0 && len(d.update) == 0 && len(d.remove) == 0
}

type reactionDiff struct {
	create []models.CommentReaction
	update []models.CommentReaction
	remove []uint
}

// diffReactions compares two reaction lists keyed by user id.
func diffReactions(before, after []models.CommentReaction) reactionDiff {
	var d reactionDiff
	prev := make(map[string]models.CommentReaction, len(before))
	for _, r := range before {
		prev[r.UserID] = r
	}
	seen := make(map[string]bool, len(after))
	for _, r := range after {
		seen[r.UserID] = true
		old, ok := prev[r.UserID]
		switch {
		case !ok:
			d.create = append(d.create, r)
		case old.Type != r.Type:
			r.ID = old.ID
			d.update = append(d.update, r)
		}
	}
	for _, r := range before {
		if !seen[r.UserID] {
			d.remove = append(d.remove, r.ID)
		}
	}
	return d
}

func (d reactionDiff) empty() bool {
	return len(d.create) == 0 && len(d.update) == 0 && len(d.remove) == 0
}
