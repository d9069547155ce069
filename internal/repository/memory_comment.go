package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"lifora/internal/models"
	"lifora/internal/utils"

	"github.com/google/uuid"
)

// MemoryCommentStore keeps comments in process. Mutations on one comment are
// serialized through a keyed mutex; the map itself is guarded by mu.
type MemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[string]*models.Comment
	order    []string // insertion order, tie-breaker for equal timestamps
	locks    *utils.KeyedMutex
	seq      uint
	now      func() time.Time
}

func NewMemoryCommentStore() *MemoryCommentStore {
	return &MemoryCommentStore{
		comments: make(map[string]*models.Comment),
		locks:    utils.NewKeyedMutex(),
		now:      time.Now,
	}
}

func (s *MemoryCommentStore) Create(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := s.comments[c.ID]; exists {
		return ErrDuplicate
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if c.Votes == nil {
		c.Votes = []models.CommentVote{}
	}
	if c.Reactions == nil {
		c.Reactions = []models.CommentReaction{}
	}
	s.comments[c.ID] = c.Clone()
	s.order = append(s.order, c.ID)
	return nil
}

func (s *MemoryCommentStore) Get(ctx context.Context, id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryCommentStore) ListByPost(ctx context.Context, postID string, offset, limit int) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Comment, 0)
	for _, id := range s.order {
		if c, ok := s.comments[id]; ok && c.PostID == postID {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	out := []models.Comment{}
	if offset < 0 || offset >= len(matched) {
		return out, nil
	}
	end := len(matched)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	for _, c := range matched[offset:end] {
		out = append(out, *c.Clone())
	}
	return out, nil
}

func (s *MemoryCommentStore) CountByPost(ctx context.Context, postID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryCommentStore) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	delete(s.comments, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryCommentStore) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Comment, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(current); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	for i := range current.Votes {
		if current.Votes[i].ID == 0 {
			s.seq++
			current.Votes[i].ID = s.seq
			current.Votes[i].CommentID = id
			current.Votes[i].CreatedAt = now
		}
	}
	for i := range current.Reactions {
		if current.Reactions[i].ID == 0 {
			s.seq++
			current.Reactions[i].ID = s.seq
			current.Reactions[i].CommentID = id
			current.Reactions[i].CreatedAt = now
		}
	}
	s.comments[id] = current.Clone()
	return current, nil
}
