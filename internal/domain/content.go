package domain

import "time"

// Owned is implemented by every resource that only its creator may mutate.
type Owned interface {
	OwnerID() string
}

type Video struct {
	ID          string    `json:"id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (v *Video) OwnerID() string {
	if v == nil {
		return ""
	}
	return v.Owner
}

// VideoDetails is a video with its owner and engagement counters.
type VideoDetails struct {
	Video
	OwnerDetails     UserSummary `json:"ownerDetails"`
	SubscribersCount int64       `json:"subscribersCount"`
	IsSubscribed     bool        `json:"isSubscribed"`
	LikesCount       int64       `json:"likesCount"`
	CommentsCount    int64       `json:"commentsCount"`
	IsLiked          bool        `json:"isLiked"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	VideoID   string    `json:"video"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) OwnerID() string {
	if c == nil {
		return ""
	}
	return c.Owner
}

type CommentView struct {
	Comment
	OwnerDetails UserSummary `json:"ownerDetails"`
	LikesCount   int64       `json:"likesCount"`
	IsLiked      bool        `json:"isLiked"`
}

type Tweet struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tweet) OwnerID() string {
	if t == nil {
		return ""
	}
	return t.Owner
}

type TweetView struct {
	Tweet
	OwnerDetails UserSummary `json:"ownerDetails"`
	LikesCount   int64       `json:"likesCount"`
	IsLiked      bool        `json:"isLiked"`
}

// LikeKind names the kind of resource a like points at.
type LikeKind string

const (
	LikeVideo   LikeKind = "video"
	LikeComment LikeKind = "comment"
	LikeTweet   LikeKind = "tweet"
)

type LikeTarget struct {
	Kind LikeKind
	ID   string
}

type Subscription struct {
	ID         string    `json:"id"`
	Subscriber string    `json:"subscriber"`
	Channel    string    `json:"channel"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T   `json:"docs"`
	TotalItems int64 `json:"totalDocs"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page[T]{Items: items, TotalItems: total, Page: page, Limit: limit, TotalPages: pages}
}
