package service

import (
	"context"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/repository"
)

type subscriptionService struct {
	subscriptions repository.SubscriptionRepository
	users         repository.UserRepository
}

func NewSubscriptionService(subscriptions repository.SubscriptionRepository, users repository.UserRepository) SubscriptionService {
	return &subscriptionService{subscriptions: subscriptions, users: users}
}

func (s *subscriptionService) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == channelID {
		return false, apperror.BadRequest("You cannot subscribe to your own channel")
	}

	if _, err := s.users.GetPublicByID(ctx, channelID); err != nil {
		return false, notFoundOr(err, "Channel not found", "Failed to get channel")
	}

	subscribed, err := s.subscriptions.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return false, apperror.Internal("Failed to toggle subscription", err)
	}

	return subscribed, nil
}

func (s *subscriptionService) Subscribers(ctx context.Context, channelID string) ([]*domain.UserSummary, error) {
	if _, err := s.users.GetPublicByID(ctx, channelID); err != nil {
		return nil, notFoundOr(err, "Channel not found", "Failed to get channel")
	}

	subscribers, err := s.subscriptions.Subscribers(ctx, channelID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch subscribers", err)
	}

	return subscribers, nil
}

func (s *subscriptionService) SubscribedChannels(ctx context.Context, subscriberID string) ([]*domain.UserSummary, error) {
	if _, err := s.users.GetPublicByID(ctx, subscriberID); err != nil {
		return nil, notFoundOr(err, "User not found", "Failed to get user")
	}

	channels, err := s.subscriptions.Channels(ctx, subscriberID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch subscribed channels", err)
	}

	return channels, nil
}
