package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	videoID, ok := idParam(c, "videoId")
	if !ok {
		return
	}

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.commentService.List(c.Request.Context(), videoID, userID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Comments fetched successfully", page)
}

func (h *CommentHandler) Add(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	videoID, ok := idParam(c, "videoId")
	if !ok {
		return
	}

	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid comment")
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), videoID, userID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Comment added successfully", comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c, "commentId")
	if !ok {
		return
	}

	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid comment")
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), commentID, userID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Comment updated successfully", comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c, "commentId")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID, userID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Comment deleted successfully", nil)
}
