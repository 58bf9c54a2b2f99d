package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/service"
)

type TweetHandler struct {
	tweetService service.TweetService
}

func NewTweetHandler(tweetService service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

func (h *TweetHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid tweet")
		return
	}

	tweet, err := h.tweetService.Create(c.Request.Context(), userID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Tweet created successfully", tweet)
}

func (h *TweetHandler) ListByUser(c *gin.Context) {
	callerUserID, ok := callerID(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	tweets, err := h.tweetService.ListByUser(c.Request.Context(), userID, callerUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tweets fetched successfully", tweets)
}

func (h *TweetHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tweetID, ok := idParam(c, "tweetId")
	if !ok {
		return
	}

	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid tweet")
		return
	}

	tweet, err := h.tweetService.Update(c.Request.Context(), tweetID, userID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tweet updated successfully", tweet)
}

func (h *TweetHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tweetID, ok := idParam(c, "tweetId")
	if !ok {
		return
	}

	if err := h.tweetService.Delete(c.Request.Context(), tweetID, userID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tweet deleted successfully", nil)
}
