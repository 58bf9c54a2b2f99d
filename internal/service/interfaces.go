package service

import (
	"context"
	"io"

	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/dto"
)

// AuthService manages accounts and the access/refresh token lifecycle
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, avatar, coverImage *MediaFile) (*domain.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, userID string) error
	// Authenticate resolves the caller behind an access token.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateAccountDetails(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID string, file *MediaFile) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID string, file *MediaFile) (*domain.User, error)
	GetChannelProfile(ctx context.Context, username, callerID string) (*domain.ChannelProfile, error)
}

type VideoService interface {
	List(ctx context.Context, callerID string, query dto.PageQuery) (domain.Page[*domain.Video], error)
	Publish(ctx context.Context, callerID string, req *dto.PublishVideoRequest, video, thumbnail *MediaFile) (*domain.Video, error)
	Get(ctx context.Context, videoID, callerID string) (*domain.VideoDetails, error)
	Update(ctx context.Context, videoID, callerID string, req *dto.UpdateVideoRequest) (*domain.Video, error)
	UpdateThumbnail(ctx context.Context, videoID, callerID string, file *MediaFile) (*domain.Video, error)
	Delete(ctx context.Context, videoID, callerID string) error
	TogglePublish(ctx context.Context, videoID, callerID string) (*domain.Video, error)
}

type CommentService interface {
	List(ctx context.Context, videoID, callerID string, query dto.PageQuery) (domain.Page[*domain.CommentView], error)
	Add(ctx context.Context, videoID, callerID, content string) (*domain.Comment, error)
	Update(ctx context.Context, commentID, callerID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, commentID, callerID string) error
}

type TweetService interface {
	Create(ctx context.Context, callerID, content string) (*domain.Tweet, error)
	ListByUser(ctx context.Context, userID, callerID string) ([]*domain.TweetView, error)
	Update(ctx context.Context, tweetID, callerID, content string) (*domain.Tweet, error)
	Delete(ctx context.Context, tweetID, callerID string) error
}

type LikeService interface {
	// Toggle reports whether the target is liked by the caller afterwards.
	Toggle(ctx context.Context, callerID string, target domain.LikeTarget) (bool, error)
	LikedVideos(ctx context.Context, callerID string) ([]*domain.VideoDetails, error)
}

type SubscriptionService interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]*domain.UserSummary, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]*domain.UserSummary, error)
}

// MediaStorage persists uploaded files and returns their public URL.
// Delete is best-effort cleanup for objects whose database write failed.
type MediaStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// MediaFile is one uploaded file as received from the client.
type MediaFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}
