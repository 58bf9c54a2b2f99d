package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/service"
)

type VideoHandler struct {
	videoService service.VideoService
}

func NewVideoHandler(videoService service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// List handles GET /videos?page=&limit=&query=&sortBy=&sortType=&userId=
func (h *VideoHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	if query.UserID != "" {
		id, err := uuid.Parse(query.UserID)
		if err != nil {
			badRequest(c, "Invalid userId")
			return
		}
		query.UserID = id.String()
	}

	page, err := h.videoService.List(c.Request.Context(), userID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Videos fetched successfully", page)
}

// Publish handles the multipart upload of videoFile and thumbnail.
func (h *VideoHandler) Publish(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid video details")
		return
	}

	video, closeVideo, err := formFile(c, "videoFile")
	if err != nil {
		badRequest(c, "Invalid video file")
		return
	}
	defer closeVideo()

	thumbnail, closeThumbnail, err := formFile(c, "thumbnail")
	if err != nil {
		badRequest(c, "Invalid thumbnail file")
		return
	}
	defer closeThumbnail()

	published, err := h.videoService.Publish(c.Request.Context(), userID, &req, video, thumbnail)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Video published successfully", published)
}

func (h *VideoHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	videoID, ok := idParam(c, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.Get(c.Request.Context(), videoID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Video fetched successfully", video)
}

func (h *VideoHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	videoID, ok := idParam(c, "videoId")
	if !ok {
		return
	}

	var req dto.UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid video details")
		return
	}

	video, err := h.videoService.Update(c.Request.Context(), videoID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Video updated successfully", video)
}

func (h *VideoHandler) UpdateThumbnail(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	videoID, ok := idParam(c, "videoId")
	if !ok {
		return
	}

	thumbnail, closeThumbnail, err := formFile(c, "thumbnail")
	if err != nil {
		badRequest(c, "Invalid thumbnail file")
		return
	}
	defer closeThumbnail()

	video, err := h.videoService.UpdateThumbnail(c.Request.Context(), videoID, userID, thumbnail)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Thumbnail updated successfully", video)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	videoID, ok := idParam(c, "videoId")
	if !ok {
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), videoID, userID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Video deleted successfully", nil)
}

func (h *VideoHandler) TogglePublish(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	videoID, ok := idParam(c, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.TogglePublish(c.Request.Context(), videoID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Publish status toggled successfully", video)
}
