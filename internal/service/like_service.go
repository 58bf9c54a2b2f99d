package service

import (
	"context"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/repository"
)

type likeService struct {
	likes    repository.LikeRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
}

func NewLikeService(
	likes repository.LikeRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	tweets repository.TweetRepository,
) LikeService {
	return &likeService{likes: likes, videos: videos, comments: comments, tweets: tweets}
}

func (s *likeService) Toggle(ctx context.Context, callerID string, target domain.LikeTarget) (bool, error) {
	if err := s.ensureTarget(ctx, callerID, target); err != nil {
		return false, err
	}

	liked, err := s.likes.Toggle(ctx, callerID, target)
	if err != nil {
		return false, apperror.Internal("Failed to toggle like", err)
	}

	return liked, nil
}

// ensureTarget checks that the like target exists and, for videos, that the
// caller can see it.
func (s *likeService) ensureTarget(ctx context.Context, callerID string, target domain.LikeTarget) error {
	var err error
	switch target.Kind {
	case domain.LikeVideo:
		if _, err = visibleVideo(ctx, s.videos, target.ID, callerID); err != nil {
			return err
		}
	case domain.LikeComment:
		_, err = s.comments.GetByID(ctx, target.ID)
		if err != nil {
			return notFoundOr(err, "Comment not found", "Failed to get comment")
		}
	case domain.LikeTweet:
		_, err = s.tweets.GetByID(ctx, target.ID)
		if err != nil {
			return notFoundOr(err, "Tweet not found", "Failed to get tweet")
		}
	default:
		return apperror.BadRequest("Unknown like target")
	}
	return nil
}

func (s *likeService) LikedVideos(ctx context.Context, callerID string) ([]*domain.VideoDetails, error) {
	videos, err := s.likes.LikedVideos(ctx, callerID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch liked videos", err)
	}
	if videos == nil {
		videos = []*domain.VideoDetails{}
	}
	return videos, nil
}
