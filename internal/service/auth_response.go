package service

import (
	"context"
	"fmt"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
)

// Session is the result of a login or a refresh: the caller without
// credentials and a fresh token pair.
type Session struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// newTokenPair signs an access and a refresh token for user.
func (s *authService) newTokenPair(user *domain.User) (domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// issue signs a new pair and stores its refresh token as the user's only
// live one.
func (s *authService) issue(ctx context.Context, user *domain.User) (*Session, error) {
	tokens, err := s.newTokenPair(user)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating refresh and access token", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &tokens.RefreshToken); err != nil {
		return nil, apperror.Internal("Something went wrong while generating refresh and access token", err)
	}

	return &Session{User: user.Public(), Tokens: tokens}, nil
}
