package repository

import (
	"context"

	"lifora/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormCommentStore struct {
	db *gorm.DB
}

func NewGormCommentStore(db *gorm.DB) *GormCommentStore {
	return &GormCommentStore{db: db}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (s *GormCommentStore) Create(ctx context.Context, c *models.Comment) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return translate(err, "create comment")
	}
	if c.Votes == nil {
		c.Votes = []models.CommentVote{}
	}
	if c.Reactions == nil {
		c.Reactions = []models.CommentReaction{}
	}
	return nil
}

func (s *GormCommentStore) Get(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := s.db.WithContext(ctx).
		Preload("Votes", orderByID).
		Preload("Reactions", orderByID).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get comment")
	}
	return &c, nil
}

func (s *GormCommentStore) ListByPost(ctx context.Context, postID string, offset, limit int) ([]models.Comment, error) {
	out := []models.Comment{}
	if offset < 0 {
		return out, nil
	}
	err := s.db.WithContext(ctx).
		Preload("Votes", orderByID).
		Preload("Reactions", orderByID).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	return out, nil
}

func (s *GormCommentStore) CountByPost(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	if err != nil {
		return 0, errors.Wrap(err, "count comments")
	}
	return n, nil
}

func (s *GormCommentStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentVote{}).Error; err != nil {
			return errors.Wrap(err, "delete comment votes")
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentReaction{}).Error; err != nil {
			return errors.Wrap(err, "delete comment reactions")
		}
		res := tx.Where("id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete comment")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Mutate locks the comment row for the duration of the transaction and writes
// only the vote/reaction rows that changed.
func (s *GormCommentStore) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Comment, error) {
	var out *models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Comment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error; err != nil {
			return translate(err, "lock comment")
		}
		if err := loadChildren(tx, &c); err != nil {
			return err
		}

		before := c.Clone()
		if err := fn(&c); err != nil {
			return err
		}

		vd := diffVotes(before.Votes, c.Votes)
		rd := diffReactions(before.Reactions, c.Reactions)
		if err := writeVoteDiff(tx, c.ID, vd); err != nil {
			return err
		}
		if err := writeReactionDiff(tx, c.ID, rd); err != nil {
			return err
		}

		if !vd.empty() || !rd.empty() {
			if err := loadChildren(tx, &c); err != nil {
				return err
			}
		}
		out = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadChildren(tx *gorm.DB, c *models.Comment) error {
	c.Votes = []models.CommentVote{}
	c.Reactions = []models.CommentReaction{}
	if err := tx.Where("comment_id = ?", c.ID).Order("id ASC").Find(&c.Votes).Error; err != nil {
		return errors.Wrap(err, "load votes")
	}
	if err := tx.Where("comment_id = ?", c.ID).Order("id ASC").Find(&c.Reactions).Error; err != nil {
		return errors.Wrap(err, "load reactions")
	}
	return nil
}

func writeVoteDiff(tx *gorm.DB, commentID string, d voteDiff) error {
	if len(d.remove) > 0 {
		if err := tx.Where("id IN ?", d.remove).Delete(&models.CommentVote{}).Error; err != nil {
			return errors.Wrap(err, "remove votes")
		}
	}
	for _, v := range d.update {
		if err := tx.Model(&models.CommentVote{}).Where("id = ?", v.ID).UpdateColumn("value", v.Value).Error; err != nil {
			return errors.Wrap(err, "update vote")
		}
	}
	for i := range d.create {
		row := d.create[i]
		row.ID = 0
		row.CommentID = commentID
		if err := tx.Create(&row).Error; err != nil {
			return errors.Wrap(err, "create vote")
		}
	}
	return nil
}

func writeReactionDiff(tx *gorm.DB, commentID string, d reactionDiff) error {
	if len(d.remove) > 0 {
		if err := tx.Where("id IN ?", d.remove).Delete(&models.CommentReaction{}).Error; err != nil {
			return errors.Wrap(err, "remove reactions")
		}
	}
	for _, r := range d.update {
		if err := tx.Model(&models.CommentReaction{}).Where("id = ?", r.ID).UpdateColumn("type", r.Type).Error; err != nil {
			return errors.Wrap(err, "update reaction")
		}
	}
	for i := range d.create {
		row := d.create[i]
		row.ID = 0
		row.CommentID = commentID
		if err := tx.Create(&row).Error; err != nil {
			return errors.Wrap(err, "create reaction")
		}
	}
	return nil
}

// translate maps gorm sentinel errors onto repository errors.
func translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return errors.Wrap(err, op)
}
