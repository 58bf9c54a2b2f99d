package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/service"
)

type LikeHandler struct {
	likeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// Toggle returns a handler toggling the caller's like on the resource of kind
// named by the path parameter param.
func (h *LikeHandler) Toggle(kind domain.LikeKind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		targetID, ok := idParam(c, param)
		if !ok {
			return
		}

		liked, err := h.likeService.Toggle(c.Request.Context(), userID, domain.LikeTarget{Kind: kind, ID: targetID})
		if err != nil {
			respondError(c, err)
			return
		}

		message := "Like removed successfully"
		if liked {
			message = "Liked successfully"
		}
		respond(c, http.StatusOK, message, dto.LikeStatus{IsLiked: liked})
	}
}

func (h *LikeHandler) LikedVideos(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	videos, err := h.likeService.LikedVideos(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Liked videos fetched successfully", videos)
}
