package service

import (
	"context"
	"strings"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/repository"
)

type tweetService struct {
	tweets repository.TweetRepository
	users  repository.UserRepository
}

func NewTweetService(tweets repository.TweetRepository, users repository.UserRepository) TweetService {
	return &tweetService{tweets: tweets, users: users}
}

func (s *tweetService) Create(ctx context.Context, callerID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("Content is required")
	}

	tweet := &domain.Tweet{Content: content, Owner: callerID}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, apperror.Internal("Failed to create tweet", err)
	}

	return tweet, nil
}

func (s *tweetService) ListByUser(ctx context.Context, userID, callerID string) ([]*domain.TweetView, error) {
	if _, err := s.users.GetPublicByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "User not found", "Failed to get user")
	}

	tweets, err := s.tweets.ListByOwner(ctx, userID, callerID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch tweets", err)
	}
	if tweets == nil {
		tweets = []*domain.TweetView{}
	}

	return tweets, nil
}

func (s *tweetService) Update(ctx context.Context, tweetID, callerID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("Content is required")
	}

	if err := s.authorize(ctx, tweetID, callerID); err != nil {
		return nil, err
	}

	tweet, err := s.tweets.UpdateContent(ctx, tweetID, content)
	if err != nil {
		return nil, notFoundOr(err, "Tweet not found", "Failed to update tweet")
	}

	return tweet, nil
}

func (s *tweetService) Delete(ctx context.Context, tweetID, callerID string) error {
	if err := s.authorize(ctx, tweetID, callerID); err != nil {
		return err
	}

	if err := s.tweets.Delete(ctx, tweetID); err != nil {
		return notFoundOr(err, "Tweet not found", "Failed to delete tweet")
	}

	return nil
}

func (s *tweetService) authorize(ctx context.Context, tweetID, callerID string) error {
	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		return notFoundOr(err, "Tweet not found", "Failed to get tweet")
	}
	return AuthorizeOwner(tweet, callerID)
}
