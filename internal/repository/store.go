package repository

import (
	"context"

	"lifora/internal/models"

	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// MutateFunc changes a loaded comment aggregate in memory. Returning an error
// aborts the mutation and nothing is persisted.
type MutateFunc func(c *models.Comment) error

// CommentStore persists comment aggregates.
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	Get(ctx context.Context, id string) (*models.Comment, error)
	// ListByPost returns comments of a post in ascending creation order.
	ListByPost(ctx context.Context, postID string, offset, limit int) ([]models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	// Delete removes the comment with its votes and reactions. Replies are untouched.
	Delete(ctx context.Context, id string) error
	// Mutate runs fn against the current aggregate and persists the result.
	// Concurrent Mutate calls on the same id never lose each other's changes.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Comment, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
}

// UserDirectory resolves author profiles for the read-side join.
// Unknown ids are simply absent from the result.
type UserDirectory interface {
	Profiles(ctx context.Context, ids []string) (map[string]models.AuthorProfile, error)
}
