package handlers

import (
	"net/http"

	"lifora/internal/middleware"
	"lifora/internal/services"
	"lifora/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type createCommentRequest struct {
	PostID        string  `json:"postId"`
	ParentComment *string `json:"parentComment"`
	Content       string  `json:"content"`
}

// Create 发表评论或回复
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := h.comments.Create(c.Request.Context(), middleware.RequesterFrom(c), services.CreateCommentInput{
		PostID:          req.PostID,
		ParentCommentID: req.ParentComment,
		Content:         req.Content,
	})
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// List 按时间正序返回帖子下的评论
func (h *CommentHandler) List(c *gin.Context) {
	page := utils.PositiveIntOr(c.Query("page"), 1)
	limit := utils.PositiveIntOr(c.Query("limit"), 0)

	views, err := h.comments.ListByPost(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CommentHandler) Count(c *gin.Context) {
	postID := c.Param("id")
	n, err := h.comments.CountByPost(c.Request.Context(), postID)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": postID, "count": n})
}

type voteRequest struct {
	VoteType string `json:"voteType"`
}

// Vote 点赞/踩，重复同一操作即取消
func (h *CommentHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := h.comments.Vote(c.Request.Context(), middleware.RequesterFrom(c), c.Param("id"), req.VoteType)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type reactRequest struct {
	ReactionType string `json:"reactionType"`
}

func (h *CommentHandler) React(c *gin.Context) {
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := h.comments.React(c.Request.Context(), middleware.RequesterFrom(c), c.Param("id"), req.ReactionType)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete 只能删除自己的评论，回复保留
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), middleware.RequesterFrom(c), c.Param("id")); err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
