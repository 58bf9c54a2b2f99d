package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userA = "11111111-1111-1111-1111-111111111111"
	userB = "22222222-2222-2222-2222-222222222222"
)

type contentFixture struct {
	videos   *fakeVideoRepo
	comments *fakeCommentRepo
	tweets   *fakeTweetRepo
	likes    *fakeLikeRepo
	users    *fakeUserRepo
}

func newContentFixture() *contentFixture {
	likes := newFakeLikeRepo()
	likes.videos = newFakeVideoRepo()
	return &contentFixture{
		videos:   likes.videos,
		comments: newFakeCommentRepo(likes),
		tweets:   newFakeTweetRepo(),
		likes:    likes,
		users:    newFakeUserRepo(),
	}
}

func (f *contentFixture) video(t *testing.T, owner string, published bool) *domain.Video {
	t.Helper()
	v := &domain.Video{Title: "t", Description: "d", Owner: owner, IsPublished: published}
	require.NoError(t, f.videos.Create(context.Background(), v))
	return v
}

func TestCommentService_DeleteScenario(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	comments := NewCommentService(f.comments, f.videos)
	likes := NewLikeService(f.likes, f.videos, f.comments, f.tweets)

	video := f.video(t, userA, true)
	comment, err := comments.Add(ctx, video.ID, userA, "first!")
	require.NoError(t, err)

	target := domain.LikeTarget{Kind: domain.LikeComment, ID: comment.ID}
	_, err = likes.Toggle(ctx, userA, target)
	require.NoError(t, err)
	_, err = likes.Toggle(ctx, userB, target)
	require.NoError(t, err)
	require.Equal(t, 2, f.likes.count(target))

	err = comments.Delete(ctx, comment.ID, userB)
	assertKind(t, err, apperror.KindForbidden)
	assert.Equal(t, 2, f.likes.count(target))

	require.NoError(t, comments.Delete(ctx, comment.ID, userA))
	assert.Zero(t, f.likes.count(target))

	err = comments.Delete(ctx, comment.ID, userA)
	assertKind(t, err, apperror.KindNotFound)
}

func TestCommentService_AddAndUpdate(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	svc := NewCommentService(f.comments, f.videos)
	video := f.video(t, userA, true)

	_, err := svc.Add(ctx, video.ID, userB, "  ")
	assertKind(t, err, apperror.KindBadRequest)

	_, err = svc.Add(ctx, "33333333-3333-3333-3333-333333333333", userB, "hi")
	assertKind(t, err, apperror.KindNotFound)

	comment, err := svc.Add(ctx, video.ID, userB, " nice video ")
	require.NoError(t, err)
	assert.Equal(t, "nice video", comment.Content)
	assert.Equal(t, userB, comment.Owner)

	_, err = svc.Update(ctx, comment.ID, userA, "edited")
	assertKind(t, err, apperror.KindForbidden)

	updated, err := svc.Update(ctx, comment.ID, userB, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, userB, updated.Owner)

	page, err := svc.List(ctx, video.ID, userA, dto.PageQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, dto.MaxLimit, page.Limit)
	assert.Len(t, page.Items, 1)
}

func TestTweetService_OwnerOnly(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	svc := NewTweetService(f.tweets, f.users)

	tweet, err := svc.Create(ctx, userA, "hello")
	require.NoError(t, err)

	_, err = svc.Update(ctx, tweet.ID, userB, "hijacked")
	assertKind(t, err, apperror.KindForbidden)

	err = svc.Delete(ctx, tweet.ID, userB)
	assertKind(t, err, apperror.KindForbidden)

	require.NoError(t, svc.Delete(ctx, tweet.ID, userA))

	_, err = svc.Update(ctx, tweet.ID, userA, "again")
	assertKind(t, err, apperror.KindNotFound)

	_, err = svc.ListByUser(ctx, userB, userA)
	assertKind(t, err, apperror.KindNotFound)
}

func TestVideoService_Visibility(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	svc := NewVideoService(f.videos, &fakeStorage{})

	hidden := f.video(t, userA, false)
	public := f.video(t, userA, true)

	_, err := svc.Get(ctx, hidden.ID, userB)
	assertKind(t, err, apperror.KindNotFound)

	details, err := svc.Get(ctx, hidden.ID, userA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), details.Views)

	details, err = svc.Get(ctx, public.ID, userB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), details.Views)

	others, err := svc.List(ctx, userB, dto.PageQuery{UserID: userA})
	require.NoError(t, err)
	assert.Len(t, others.Items, 1)

	own, err := svc.List(ctx, userA, dto.PageQuery{UserID: userA})
	require.NoError(t, err)
	assert.Len(t, own.Items, 2)
}

func TestVideoService_OwnerMutations(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	svc := NewVideoService(f.videos, &fakeStorage{})
	video := f.video(t, userA, true)

	_, err := svc.TogglePublish(ctx, video.ID, userB)
	assertKind(t, err, apperror.KindForbidden)

	toggled, err := svc.TogglePublish(ctx, video.ID, userA)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)

	_, err = svc.Update(ctx, video.ID, userB, &dto.UpdateVideoRequest{Title: "x", Description: "y"})
	assertKind(t, err, apperror.KindForbidden)

	updated, err := svc.Update(ctx, video.ID, userA, &dto.UpdateVideoRequest{Title: "x", Description: "y"})
	require.NoError(t, err)
	assert.Equal(t, "x", updated.Title)
	assert.Equal(t, userA, updated.Owner)

	_, err = svc.UpdateThumbnail(ctx, video.ID, userB, &MediaFile{Name: "t.jpg", Body: strings.NewReader("x")})
	assertKind(t, err, apperror.KindForbidden)

	err = svc.Delete(ctx, video.ID, userB)
	assertKind(t, err, apperror.KindForbidden)

	require.NoError(t, svc.Delete(ctx, video.ID, userA))

	_, err = svc.TogglePublish(ctx, video.ID, userA)
	assertKind(t, err, apperror.KindNotFound)
}

func TestVideoService_Publish(t *testing.T) {
	f := newContentFixture()
	storage := &fakeStorage{}
	svc := NewVideoService(f.videos, storage)
	ctx := context.Background()

	req := &dto.PublishVideoRequest{Title: "Cats", Description: "Many cats", Duration: 12.5}

	_, err := svc.Publish(ctx, userA, req, nil, &MediaFile{Name: "t.png", Body: strings.NewReader("x")})
	assertKind(t, err, apperror.KindBadRequest)

	_, err = svc.Publish(ctx, userA, &dto.PublishVideoRequest{Title: "Cats"}, nil, nil)
	assertKind(t, err, apperror.KindBadRequest)

	video, err := svc.Publish(ctx, userA, req,
		&MediaFile{Name: "cats.mp4", Body: strings.NewReader("mp4")},
		&MediaFile{Name: "cats.png", Body: strings.NewReader("png")},
	)
	require.NoError(t, err)
	assert.True(t, video.IsPublished)
	assert.Equal(t, userA, video.Owner)
	assert.Equal(t, 12.5, video.Duration)
	assert.Contains(t, video.VideoFile, "videos/")
	assert.Contains(t, video.Thumbnail, "thumbnails/")
	assert.Len(t, storage.keys, 2)
}

func TestVideoService_PublishDiscardsOrphanedMedia(t *testing.T) {
	req := &dto.PublishVideoRequest{Title: "Cats", Description: "Many cats"}
	files := func() (*MediaFile, *MediaFile) {
		return &MediaFile{Name: "cats.mp4", Body: strings.NewReader("mp4")},
			&MediaFile{Name: "cats.png", Body: strings.NewReader("png")}
	}

	t.Run("thumbnail upload fails", func(t *testing.T) {
		f := newContentFixture()
		storage := &fakeStorage{err: errors.New("bucket gone"), failPrefix: thumbnailPrefix}
		svc := NewVideoService(f.videos, storage)

		video, thumbnail := files()
		_, err := svc.Publish(context.Background(), userA, req, video, thumbnail)
		assertKind(t, err, apperror.KindInternal)
		require.Len(t, storage.keys, 1)
		assert.Equal(t, storage.keys, storage.deleted)
	})

	t.Run("create fails", func(t *testing.T) {
		f := newContentFixture()
		f.videos.createErr = errors.New("db down")
		storage := &fakeStorage{}
		svc := NewVideoService(f.videos, storage)

		video, thumbnail := files()
		_, err := svc.Publish(context.Background(), userA, req, video, thumbnail)
		assertKind(t, err, apperror.KindInternal)
		require.Len(t, storage.keys, 2)
		assert.Equal(t, storage.keys, storage.deleted)
		assert.Empty(t, f.videos.videos)
	})

	t.Run("success keeps media", func(t *testing.T) {
		f := newContentFixture()
		storage := &fakeStorage{}
		svc := NewVideoService(f.videos, storage)

		video, thumbnail := files()
		_, err := svc.Publish(context.Background(), userA, req, video, thumbnail)
		require.NoError(t, err)
		assert.Empty(t, storage.deleted)
	})
}

func TestLikeService_Toggle(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	svc := NewLikeService(f.likes, f.videos, f.comments, f.tweets)
	video := f.video(t, userA, true)
	target := domain.LikeTarget{Kind: domain.LikeVideo, ID: video.ID}

	liked, err := svc.Toggle(ctx, userB, target)
	require.NoError(t, err)
	assert.True(t, liked)

	videos, err := svc.LikedVideos(ctx, userB)
	require.NoError(t, err)
	assert.Len(t, videos, 1)

	liked, err = svc.Toggle(ctx, userB, target)
	require.NoError(t, err)
	assert.False(t, liked)

	videos, err = svc.LikedVideos(ctx, userB)
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)

	_, err = svc.Toggle(ctx, userB, domain.LikeTarget{Kind: domain.LikeTweet, ID: video.ID})
	assertKind(t, err, apperror.KindNotFound)
}

func TestUnpublishedVideoHiddenFromOthers(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	videos := NewVideoService(f.videos, &fakeStorage{})
	comments := NewCommentService(f.comments, f.videos)
	likes := NewLikeService(f.likes, f.videos, f.comments, f.tweets)

	hidden := f.video(t, userA, false)
	target := domain.LikeTarget{Kind: domain.LikeVideo, ID: hidden.ID}

	_, err := videos.Get(ctx, hidden.ID, userB)
	assertKind(t, err, apperror.KindNotFound)

	_, err = comments.Add(ctx, hidden.ID, userB, "found it")
	assertKind(t, err, apperror.KindNotFound)

	_, err = comments.List(ctx, hidden.ID, userB, dto.PageQuery{})
	assertKind(t, err, apperror.KindNotFound)

	_, err = likes.Toggle(ctx, userB, target)
	assertKind(t, err, apperror.KindNotFound)
	assert.Zero(t, f.likes.count(target))

	// The owner still reaches it everywhere.
	_, err = comments.Add(ctx, hidden.ID, userA, "draft note")
	require.NoError(t, err)
	page, err := comments.List(ctx, hidden.ID, userA, dto.PageQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	liked, err := likes.Toggle(ctx, userA, target)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestLikeService_LikedVideosDropsUnpublished(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	svc := NewLikeService(f.likes, f.videos, f.comments, f.tweets)

	video := f.video(t, userA, true)
	_, err := svc.Toggle(ctx, userB, domain.LikeTarget{Kind: domain.LikeVideo, ID: video.ID})
	require.NoError(t, err)

	_, err = f.videos.SetPublished(ctx, video.ID, false)
	require.NoError(t, err)

	liked, err := svc.LikedVideos(ctx, userB)
	require.NoError(t, err)
	assert.Empty(t, liked)

	_, err = svc.Toggle(ctx, userA, domain.LikeTarget{Kind: domain.LikeVideo, ID: video.ID})
	require.NoError(t, err)
	liked, err = svc.LikedVideos(ctx, userA)
	require.NoError(t, err)
	assert.Len(t, liked, 1)
}

func TestSubscriptionService_Toggle(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewSubscriptionService(newFakeSubscriptionRepo(), users)
	ctx := context.Background()

	channel := &domain.User{Username: "ann", Email: "a@x.com"}
	require.NoError(t, users.Create(ctx, channel))

	_, err := svc.Toggle(ctx, channel.ID, channel.ID)
	assertKind(t, err, apperror.KindBadRequest)

	_, err = svc.Toggle(ctx, userB, userA)
	assertKind(t, err, apperror.KindNotFound)

	subscribed, err := svc.Toggle(ctx, userB, channel.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribers, err := svc.Subscribers(ctx, channel.ID)
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
	assert.Equal(t, userB, subscribers[0].ID)

	subscribed, err = svc.Toggle(ctx, userB, channel.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}
