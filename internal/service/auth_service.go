package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/repository"
	"github.com/prperemyshlev/videotube/internal/utils"
	"github.com/prperemyshlev/videotube/pkg/observability"
	"go.uber.org/zap"
)

const msgStaleRefreshToken = "Refresh token is expired or used"

// authService implements AuthService interface
type authService struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	jwtManager       *utils.JWTManager
	storage          MediaStorage
	metrics          *observability.AuthMetrics
	bcryptCost       int
}

// NewAuthService creates a new auth service. metrics may be nil.
func NewAuthService(
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	jwtManager *utils.JWTManager,
	storage MediaStorage,
	metrics *observability.AuthMetrics,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		jwtManager:       jwtManager,
		storage:          storage,
		metrics:          metrics,
		bcryptCost:       bcryptCost,
	}
}

// Register creates an account. It does not log the user in.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, avatar, coverImage *MediaFile) (*domain.User, error) {
	if utils.AnyBlank(req.Username, req.Email, req.FullName, req.Password) {
		return nil, apperror.BadRequest("All fields are required")
	}

	if !utils.ValidateEmail(req.Email) {
		return nil, apperror.BadRequest("Invalid email format")
	}

	user, err := domain.NewUser(req.Username, req.Email, req.FullName, req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperror.Internal("Failed to hash password", err)
	}

	_, err = s.userRepo.GetByUsernameOrEmail(ctx, user.Username, user.Email)
	if err == nil {
		return nil, apperror.Conflict("User with email or username already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal("Failed to check user existence", err)
	}

	var avatarKey, coverKey string
	if avatar != nil {
		if avatarKey, user.Avatar, err = uploadMedia(ctx, s.storage, avatarPrefix, avatar); err != nil {
			return nil, apperror.Internal("Failed to upload avatar", err)
		}
	}
	if coverImage != nil {
		if coverKey, user.CoverImage, err = uploadMedia(ctx, s.storage, coverPrefix, coverImage); err != nil {
			discardMedia(ctx, s.storage, avatarKey)
			return nil, apperror.Internal("Failed to upload cover image", err)
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		discardMedia(ctx, s.storage, avatarKey, coverKey)
		if errors.Is(err, repository.ErrDuplicateUsername) || errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Conflict("User with email or username already exists")
		}
		return nil, apperror.Internal("Failed to create user", err)
	}

	created, err := s.userRepo.GetPublicByID(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while registering the user", err)
	}

	return created, nil
}

// Login authenticates by username or email and issues a new session.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*Session, error) {
	if strings.TrimSpace(req.Username) == "" && strings.TrimSpace(req.Email) == "" {
		return nil, apperror.BadRequest("Username or email is required")
	}
	if req.Password == "" {
		return nil, apperror.BadRequest("Password is required")
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx,
		domain.NormalizeIdentity(req.Username),
		domain.NormalizeIdentity(req.Email),
	)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordFailure(ctx, "login", "unknown_user")
			return nil, apperror.NotFound("User does not exist")
		}
		return nil, apperror.Internal("Failed to get user", err)
	}

	if !user.PasswordMatches(req.Password) {
		s.metrics.RecordFailure(ctx, "login", "bad_password")
		return nil, apperror.Unauthorized("Invalid user credentials")
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLogin(ctx)
	zap.L().Info("user logged in", zap.String("user_id", user.ID))

	return session, nil
}

// Refresh rotates the refresh token. The presented token must equal the stored
// one, and the swap only succeeds if no concurrent rotation replaced it first.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		s.metrics.RecordFailure(ctx, "refresh", "missing")
		return nil, apperror.Unauthorized("Unauthorized request")
	}

	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.metrics.RecordFailure(ctx, "refresh", "invalid")
		return nil, apperror.Wrap(apperror.KindUnauthorized, "Invalid refresh token", err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordFailure(ctx, "refresh", "unknown_user")
			return nil, apperror.Unauthorized("Invalid refresh token")
		}
		return nil, apperror.Internal("Failed to get user", err)
	}

	if user.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(refreshToken)) != 1 {
		s.metrics.RecordFailure(ctx, "refresh", "reused")
		return nil, apperror.Unauthorized(msgStaleRefreshToken)
	}

	tokens, err := s.newTokenPair(user)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating refresh and access token", err)
	}

	if err := s.userRepo.SwapRefreshToken(ctx, user.ID, refreshToken, tokens.RefreshToken); err != nil {
		if errors.Is(err, repository.ErrStaleRefreshToken) {
			s.metrics.RecordFailure(ctx, "refresh", "reused")
			return nil, apperror.Unauthorized(msgStaleRefreshToken)
		}
		return nil, apperror.Internal("Failed to rotate refresh token", err)
	}

	s.metrics.RecordRefresh(ctx)

	return &Session{User: user.Public(), Tokens: tokens}, nil
}

// Logout clears the stored refresh token; outstanding access tokens stay
// valid until they expire.
func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Unauthorized("Invalid access token")
		}
		return apperror.Internal("Failed to log out", err)
	}

	return nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, apperror.Unauthorized("Unauthorized request")
	}

	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		s.metrics.RecordFailure(ctx, "access", "invalid")
		return nil, apperror.Wrap(apperror.KindUnauthorized, "Invalid access token", err)
	}

	user, err := s.userRepo.GetPublicByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordFailure(ctx, "access", "unknown_user")
			return nil, apperror.Unauthorized("Invalid access token")
		}
		return nil, apperror.Internal("Failed to get user", err)
	}

	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperror.BadRequest("Old and new password are required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, "User not found", "Failed to get user")
	}

	if !user.PasswordMatches(req.OldPassword) {
		return apperror.Unauthorized("Invalid old password")
	}

	if err := user.SetPassword(req.NewPassword, s.bcryptCost); err != nil {
		return apperror.Internal("Failed to hash password", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.PasswordHash); err != nil {
		return notFoundOr(err, "User not found", "Failed to update password")
	}

	return nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetPublicByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "Failed to get user")
	}
	return user, nil
}

func (s *authService) UpdateAccountDetails(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error) {
	if utils.AnyBlank(req.FullName, req.Email) {
		return nil, apperror.BadRequest("All fields are required")
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, apperror.BadRequest("Invalid email format")
	}

	user, err := s.userRepo.UpdateDetails(ctx, userID, strings.TrimSpace(req.FullName), domain.NormalizeIdentity(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Conflict("User with this email already exists")
		}
		return nil, notFoundOr(err, "User not found", "Failed to update account details")
	}

	return user, nil
}

func (s *authService) UpdateAvatar(ctx context.Context, userID string, file *MediaFile) (*domain.User, error) {
	if file == nil {
		return nil, apperror.BadRequest("Avatar file is missing")
	}

	key, url, err := uploadMedia(ctx, s.storage, avatarPrefix, file)
	if err != nil {
		return nil, apperror.Internal("Error while uploading avatar", err)
	}

	user, err := s.userRepo.UpdateAvatar(ctx, userID, url)
	if err != nil {
		discardMedia(ctx, s.storage, key)
		return nil, notFoundOr(err, "User not found", "Failed to update avatar")
	}

	return user, nil
}

func (s *authService) UpdateCoverImage(ctx context.Context, userID string, file *MediaFile) (*domain.User, error) {
	if file == nil {
		return nil, apperror.BadRequest("Cover image file is missing")
	}

	key, url, err := uploadMedia(ctx, s.storage, coverPrefix, file)
	if err != nil {
		return nil, apperror.Internal("Error while uploading cover image", err)
	}

	user, err := s.userRepo.UpdateCoverImage(ctx, userID, url)
	if err != nil {
		discardMedia(ctx, s.storage, key)
		return nil, notFoundOr(err, "User not found", "Failed to update cover image")
	}

	return user, nil
}

func (s *authService) GetChannelProfile(ctx context.Context, username, callerID string) (*domain.ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperror.BadRequest("Username is missing")
	}

	user, err := s.userRepo.GetPublicByUsername(ctx, domain.NormalizeIdentity(username))
	if err != nil {
		return nil, notFoundOr(err, "Channel does not exist", "Failed to get channel")
	}

	subscribers, subscribedTo, isSubscribed, err := s.subscriptionRepo.ChannelStats(ctx, user.ID, callerID)
	if err != nil {
		return nil, apperror.Internal("Failed to get channel", err)
	}

	return &domain.ChannelProfile{
		ID:                user.ID,
		Username:          user.Username,
		FullName:          user.FullName,
		Avatar:            user.Avatar,
		CoverImage:        user.CoverImage,
		SubscribersCount:  subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}
