package service

import (
	"context"
	"strings"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/repository"
)

type commentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
}

func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository) CommentService {
	return &commentService{comments: comments, videos: videos}
}

func (s *commentService) List(ctx context.Context, videoID, callerID string, query dto.PageQuery) (domain.Page[*domain.CommentView], error) {
	query.Normalize()

	if _, err := visibleVideo(ctx, s.videos, videoID, callerID); err != nil {
		return domain.Page[*domain.CommentView]{}, err
	}

	comments, total, err := s.comments.ListByVideo(ctx, videoID, callerID, query.Page, query.Limit)
	if err != nil {
		return domain.Page[*domain.CommentView]{}, apperror.Internal("Failed to fetch comments", err)
	}

	return domain.NewPage(comments, total, query.Page, query.Limit), nil
}

func (s *commentService) Add(ctx context.Context, videoID, callerID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("Content is required")
	}

	if _, err := visibleVideo(ctx, s.videos, videoID, callerID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{Content: content, VideoID: videoID, Owner: callerID}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperror.Internal("Failed to add comment", err)
	}

	return comment, nil
}

func (s *commentService) Update(ctx context.Context, commentID, callerID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("Content is required")
	}

	if _, err := s.owned(ctx, commentID, callerID); err != nil {
		return nil, err
	}

	comment, err := s.comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, notFoundOr(err, "Comment not found", "Failed to update comment")
	}

	return comment, nil
}

// Delete removes the comment together with its likes.
func (s *commentService) Delete(ctx context.Context, commentID, callerID string) error {
	if _, err := s.owned(ctx, commentID, callerID); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return notFoundOr(err, "Comment not found", "Failed to delete comment")
	}

	return nil
}

func (s *commentService) owned(ctx context.Context, commentID, callerID string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, notFoundOr(err, "Comment not found", "Failed to get comment")
	}

	if err := AuthorizeOwner(comment, callerID); err != nil {
		return nil, err
	}

	return comment, nil
}
