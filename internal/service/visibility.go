package service

import (
	"context"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/repository"
)

// canView reports whether callerID may see video. Unpublished videos exist
// only for their owner.
func canView(video *domain.Video, callerID string) bool {
	return video.IsPublished || (callerID != "" && video.Owner == callerID)
}

// visibleVideo loads a video the caller may see, reporting hidden ones as
// missing.
func visibleVideo(ctx context.Context, videos repository.VideoRepository, videoID, callerID string) (*domain.Video, error) {
	video, err := videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, notFoundOr(err, "Video not found", "Failed to get video")
	}

	if !canView(video, callerID) {
		return nil, apperror.NotFound("Video not found")
	}

	return video, nil
}
