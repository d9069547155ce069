package services

import (
	"context"
	"math"
	"strings"
	"time"

	"lifora/internal/metrics"
	"lifora/internal/models"
	"lifora/internal/repository"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Requester is the authenticated caller of a service operation.
type Requester struct {
	UserID string
}

type CreateCommentInput struct {
	PostID          string
	ParentCommentID *string
	Content         string
}

type CommentServiceConfig struct {
	DefaultLimit int
	MaxLimit     int
	// ValidateParent rejects replies whose parent is missing or on another post.
	ValidateParent bool
}

type CommentService struct {
	comments  repository.CommentStore
	directory repository.UserDirectory
	events    EventSink
	cfg       CommentServiceConfig
	now       func() time.Time
}

func NewCommentService(comments repository.CommentStore, directory repository.UserDirectory, events EventSink, cfg CommentServiceConfig) *CommentService {
	if events == nil {
		events = nopSink{}
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	return &CommentService{
		comments:  comments,
		directory: directory,
		events:    events,
		cfg:       cfg,
		now:       time.Now,
	}
}

func observe(op string, err error) {
	if err == nil {
		metrics.ObserveCommentOp(op, "ok")
		return
	}
	metrics.ObserveCommentOp(op, string(KindOf(err)))
}

func (s *CommentService) Create(ctx context.Context, r Requester, in CreateCommentInput) (view *CommentView, err error) {
	defer func() { observe("create", err) }()

	if r.UserID == "" {
		return nil, Unauthorized("authentication required")
	}
	postID := strings.TrimSpace(in.PostID)
	if postID == "" {
		return nil, InvalidArgument("postId is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, InvalidArgument("content is required")
	}

	parentID := in.ParentCommentID
	if parentID != nil && strings.TrimSpace(*parentID) == "" {
		parentID = nil
	}
	if parentID != nil && s.cfg.ValidateParent {
		if err := s.checkParent(ctx, postID, *parentID); err != nil {
			return nil, err
		}
	}

	c := &models.Comment{
		PostID:          postID,
		ParentCommentID: parentID,
		AuthorID:        r.UserID,
		Content:         in.Content,
		CreatedAt:       s.now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, s.storeErr("create comment", err)
	}

	s.events.Emit(CommentEvent{Type: EventCommentCreated, CommentID: c.ID, PostID: c.PostID, UserID: r.UserID})
	return s.view(ctx, c), nil
}

func (s *CommentService) checkParent(ctx context.Context, postID, parentID string) error {
	parent, err := s.comments.Get(ctx, parentID)
	if errors.Is(err, repository.ErrNotFound) {
		return InvalidArgument("parent comment not found")
	}
	if err != nil {
		return s.storeErr("load parent comment", err)
	}
	if parent.PostID != postID {
		return InvalidArgument("parent comment belongs to another post")
	}
	return nil
}

// ListByPost returns one page of a post's comments, oldest first. Nesting is
// left to the caller via parentComment.
func (s *CommentService) ListByPost(ctx context.Context, postID string, page, limit int) (views []CommentView, err error) {
	defer func() { observe("list", err) }()

	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, InvalidArgument("postId is required")
	}
	page, limit = s.normalizePage(page, limit)
	if page-1 > math.MaxInt/limit {
		return []CommentView{}, nil
	}

	list, err := s.comments.ListByPost(ctx, postID, (page-1)*limit, limit)
	if err != nil {
		return nil, s.storeErr("list comments", err)
	}

	ids := make([]string, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].AuthorID)
	}
	profiles := s.profiles(ctx, ids)

	views = make([]CommentView, 0, len(list))
	for i := range list {
		views = append(views, newCommentView(&list[i], profiles))
	}
	return views, nil
}

func (s *CommentService) normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return page, limit
}

func (s *CommentService) CountByPost(ctx context.Context, postID string) (n int64, err error) {
	defer func() { observe("count", err) }()

	postID = strings.TrimSpace(postID)
	if postID == "" {
		return 0, InvalidArgument("postId is required")
	}
	n, err = s.comments.CountByPost(ctx, postID)
	if err != nil {
		return 0, s.storeErr("count comments", err)
	}
	return n, nil
}

func (s *CommentService) Vote(ctx context.Context, r Requester, commentID, voteType string) (view *CommentView, err error) {
	defer func() { observe("vote", err) }()

	if r.UserID == "" {
		return nil, Unauthorized("authentication required")
	}
	if _, ok := models.ParseVoteType(voteType); !ok {
		return nil, InvalidArgument("voteType must be 'up' or 'down'")
	}

	c, err := s.comments.Mutate(ctx, commentID, func(c *models.Comment) error {
		return ApplyVote(c, r.UserID, voteType)
	})
	if err != nil {
		return nil, s.storeErr("vote on comment", err)
	}

	s.events.Emit(CommentEvent{Type: EventCommentVoted, CommentID: c.ID, PostID: c.PostID, UserID: r.UserID, Value: voteType})
	return s.view(ctx, c), nil
}

func (s *CommentService) React(ctx context.Context, r Requester, commentID, reactionType string) (view *CommentView, err error) {
	defer func() { observe("react", err) }()

	if r.UserID == "" {
		return nil, Unauthorized("authentication required")
	}
	if _, ok := models.ParseReactionType(reactionType); !ok {
		return nil, InvalidArgument("reactionType must be one of Like, Love, Haha, Wow, Sad, Angry")
	}

	c, err := s.comments.Mutate(ctx, commentID, func(c *models.Comment) error {
		return ApplyReaction(c, r.UserID, reactionType)
	})
	if err != nil {
		return nil, s.storeErr("react to comment", err)
	}

	s.events.Emit(CommentEvent{Type: EventCommentReacted, CommentID: c.ID, PostID: c.PostID, UserID: r.UserID, Value: reactionType})
	return s.view(ctx, c), nil
}

// Delete removes the requester's own comment. Replies keep their parent reference.
func (s *CommentService) Delete(ctx context.Context, r Requester, commentID string) (err error) {
	defer func() { observe("delete", err) }()

	if r.UserID == "" {
		return Unauthorized("authentication required")
	}

	c, err := s.comments.Get(ctx, commentID)
	if err != nil {
		return s.storeErr("load comment", err)
	}
	if c.AuthorID != r.UserID {
		return Unauthorized("not authorized to delete this comment")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return s.storeErr("delete comment", err)
	}

	s.events.Emit(CommentEvent{Type: EventCommentDeleted, CommentID: c.ID, PostID: c.PostID, UserID: r.UserID})
	return nil
}

func (s *CommentService) view(ctx context.Context, c *models.Comment) *CommentView {
	v := newCommentView(c, s.profiles(ctx, []string{c.AuthorID}))
	return &v
}

// profiles never fails the request: an unreachable directory degrades to id-only authors.
func (s *CommentService) profiles(ctx context.Context, ids []string) map[string]models.AuthorProfile {
	if s.directory == nil || len(ids) == 0 {
		return nil
	}
	profiles, err := s.directory.Profiles(ctx, ids)
	if err != nil {
		logrus.WithError(err).Warn("author lookup failed")
		return nil
	}
	return profiles
}

// storeErr classifies repository errors. Service errors pass through untouched.
func (s *CommentService) storeErr(op string, err error) error {
	var svcErr *Error
	switch {
	case errors.As(err, &svcErr):
		return svcErr
	case errors.Is(err, repository.ErrNotFound):
		return NotFound("comment not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Internal(op, err)
	}
	logrus.WithError(err).WithField("op", op).Error("comment store failure")
	return Internal(op, err)
}
