package service

import (
	"context"
	"strings"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/repository"
	"go.uber.org/zap"
)

type videoService struct {
	videos  repository.VideoRepository
	storage MediaStorage
}

func NewVideoService(videos repository.VideoRepository, storage MediaStorage) VideoService {
	return &videoService{videos: videos, storage: storage}
}

// List returns published videos. Unpublished ones are included only when the
// caller lists their own channel.
func (s *videoService) List(ctx context.Context, callerID string, query dto.PageQuery) (domain.Page[*domain.Video], error) {
	query.Normalize()

	filter := repository.VideoFilter{
		OwnerID:            query.UserID,
		Query:              query.Query,
		SortBy:             query.SortBy,
		SortDesc:           query.Descending(),
		IncludeUnpublished: query.UserID != "" && query.UserID == callerID,
		Page:               query.Page,
		Limit:              query.Limit,
	}

	videos, total, err := s.videos.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.Video]{}, apperror.Internal("Failed to fetch videos", err)
	}

	return domain.NewPage(videos, total, query.Page, query.Limit), nil
}

func (s *videoService) Publish(ctx context.Context, callerID string, req *dto.PublishVideoRequest, video, thumbnail *MediaFile) (*domain.Video, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, apperror.BadRequest("Title and description are required")
	}
	if video == nil {
		return nil, apperror.BadRequest("Video file is required")
	}
	if thumbnail == nil {
		return nil, apperror.BadRequest("Thumbnail is required")
	}
	if req.Duration < 0 {
		return nil, apperror.BadRequest("Duration must not be negative")
	}

	videoKey, videoURL, err := uploadMedia(ctx, s.storage, videoPrefix, video)
	if err != nil {
		return nil, apperror.Internal("Failed to upload video", err)
	}

	thumbnailKey, thumbnailURL, err := uploadMedia(ctx, s.storage, thumbnailPrefix, thumbnail)
	if err != nil {
		discardMedia(ctx, s.storage, videoKey)
		return nil, apperror.Internal("Failed to upload thumbnail", err)
	}

	created := &domain.Video{
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Duration:    req.Duration,
		IsPublished: true,
		Owner:       callerID,
	}
	if err := s.videos.Create(ctx, created); err != nil {
		discardMedia(ctx, s.storage, videoKey, thumbnailKey)
		return nil, apperror.Internal("Failed to publish video", err)
	}

	return created, nil
}

// Get returns a video and counts the view. Unpublished videos are reported
// missing to everyone but their owner.
func (s *videoService) Get(ctx context.Context, videoID, callerID string) (*domain.VideoDetails, error) {
	details, err := s.videos.GetDetails(ctx, videoID, callerID)
	if err != nil {
		return nil, notFoundOr(err, "Video not found", "Failed to get video")
	}

	if !canView(&details.Video, callerID) {
		return nil, apperror.NotFound("Video not found")
	}

	if err := s.videos.IncrementViews(ctx, videoID); err != nil {
		zap.L().Warn("failed to increment video views", zap.String("video_id", videoID), zap.Error(err))
	} else {
		details.Views++
	}

	return details, nil
}

func (s *videoService) Update(ctx context.Context, videoID, callerID string, req *dto.UpdateVideoRequest) (*domain.Video, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, apperror.BadRequest("Title and description are required")
	}

	if _, err := s.owned(ctx, videoID, callerID); err != nil {
		return nil, err
	}

	video, err := s.videos.UpdateDetails(ctx, videoID, strings.TrimSpace(req.Title), strings.TrimSpace(req.Description))
	if err != nil {
		return nil, notFoundOr(err, "Video not found", "Failed to update video")
	}

	return video, nil
}

func (s *videoService) UpdateThumbnail(ctx context.Context, videoID, callerID string, file *MediaFile) (*domain.Video, error) {
	if file == nil {
		return nil, apperror.BadRequest("Thumbnail is required")
	}

	if _, err := s.owned(ctx, videoID, callerID); err != nil {
		return nil, err
	}

	key, url, err := uploadMedia(ctx, s.storage, thumbnailPrefix, file)
	if err != nil {
		return nil, apperror.Internal("Failed to upload thumbnail", err)
	}

	video, err := s.videos.UpdateThumbnail(ctx, videoID, url)
	if err != nil {
		discardMedia(ctx, s.storage, key)
		return nil, notFoundOr(err, "Video not found", "Failed to update thumbnail")
	}

	return video, nil
}

// Delete removes the video, its comments and every like on either.
func (s *videoService) Delete(ctx context.Context, videoID, callerID string) error {
	if _, err := s.owned(ctx, videoID, callerID); err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return notFoundOr(err, "Video not found", "Failed to delete video")
	}

	return nil
}

func (s *videoService) TogglePublish(ctx context.Context, videoID, callerID string) (*domain.Video, error) {
	current, err := s.owned(ctx, videoID, callerID)
	if err != nil {
		return nil, err
	}

	video, err := s.videos.SetPublished(ctx, videoID, !current.IsPublished)
	if err != nil {
		return nil, notFoundOr(err, "Video not found", "Failed to toggle publish status")
	}

	return video, nil
}

func (s *videoService) owned(ctx context.Context, videoID, callerID string) (*domain.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, notFoundOr(err, "Video not found", "Failed to get video")
	}

	if err := AuthorizeOwner(video, callerID); err != nil {
		return nil, err
	}

	return video, nil
}
