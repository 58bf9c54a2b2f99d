package repository

import (
	"context"

	"github.com/prperemyshlev/videotube/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// GetByID returns the full record, credentials included.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetPublicByID never reads the password hash or refresh token.
	GetPublicByID(ctx context.Context, id string) (*domain.User, error)
	GetPublicByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	SetRefreshToken(ctx context.Context, userID string, token *string) error
	// SwapRefreshToken replaces current with next only if current is still stored.
	SwapRefreshToken(ctx context.Context, userID, current, next string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateDetails(ctx context.Context, userID, fullName, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID, url string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID, url string) (*domain.User, error)
}

type VideoFilter struct {
	OwnerID            string
	Query              string
	SortBy             string
	SortDesc           bool
	IncludeUnpublished bool
	Page               int
	Limit              int
}

type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id string) (*domain.Video, error)
	GetDetails(ctx context.Context, id, callerID string) (*domain.VideoDetails, error)
	List(ctx context.Context, filter VideoFilter) ([]*domain.Video, int64, error)
	IncrementViews(ctx context.Context, id string) error
	UpdateDetails(ctx context.Context, id, title, description string) (*domain.Video, error)
	UpdateThumbnail(ctx context.Context, id, url string) (*domain.Video, error)
	SetPublished(ctx context.Context, id string, published bool) (*domain.Video, error)
	// Delete removes the video together with its comments and every like
	// pointing at the video or its comments.
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByVideo(ctx context.Context, videoID, callerID string, page, limit int) ([]*domain.CommentView, int64, error)
	UpdateContent(ctx context.Context, id, content string) (*domain.Comment, error)
	// Delete removes the comment and its likes.
	Delete(ctx context.Context, id string) error
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	GetByID(ctx context.Context, id string) (*domain.Tweet, error)
	ListByOwner(ctx context.Context, ownerID, callerID string) ([]*domain.TweetView, error)
	UpdateContent(ctx context.Context, id, content string) (*domain.Tweet, error)
	// Delete removes the tweet and its likes.
	Delete(ctx context.Context, id string) error
}

type LikeRepository interface {
	// Toggle removes the caller's like on target if present, otherwise adds
	// it, and reports whether the target is liked afterwards.
	Toggle(ctx context.Context, userID string, target domain.LikeTarget) (bool, error)
	LikedVideos(ctx context.Context, userID string) ([]*domain.VideoDetails, error)
}

type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]*domain.UserSummary, error)
	Channels(ctx context.Context, subscriberID string) ([]*domain.UserSummary, error)
	ChannelStats(ctx context.Context, channelID, callerID string) (subscribers, subscribedTo int64, isSubscribed bool, err error)
}
