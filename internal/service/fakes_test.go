package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/repository"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) get(id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	clone := *u
	if u.RefreshToken != nil {
		token := *u.RefreshToken
		clone.RefreshToken = &token
	}
	return &clone, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeUserRepo) GetPublicByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (r *fakeUserRepo) GetPublicByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Username == username {
			found, _ := r.get(id)
			return found.Public(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Username == username {
			return r.get(id)
		}
	}
	for id, u := range r.users {
		if u.Email == email {
			return r.get(id)
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, userID string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if token == nil {
		u.RefreshToken = nil
		return nil
	}
	stored := *token
	u.RefreshToken = &stored
	return nil
}

func (r *fakeUserRepo) SwapRefreshToken(_ context.Context, userID, current, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return repository.ErrStaleRefreshToken
	}
	u.RefreshToken = &next
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateDetails(_ context.Context, userID, fullName, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, other := range r.users {
		if id != userID && other.Email == email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.FullName, u.Email = fullName, email
	return u.Public(), nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, userID, url string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Avatar = url
	return u.Public(), nil
}

func (r *fakeUserRepo) UpdateCoverImage(_ context.Context, userID, url string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.CoverImage = url
	return u.Public(), nil
}

func (r *fakeUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func (r *fakeUserRepo) storedRefreshToken(id string) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].RefreshToken
}

func (r *fakeUserRepo) storedHash(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].PasswordHash
}

type fakeSubscriptionRepo struct {
	pairs map[[2]string]bool
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{pairs: map[[2]string]bool{}}
}

func (r *fakeSubscriptionRepo) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	key := [2]string{subscriberID, channelID}
	if r.pairs[key] {
		delete(r.pairs, key)
		return false, nil
	}
	r.pairs[key] = true
	return true, nil
}

func (r *fakeSubscriptionRepo) Subscribers(_ context.Context, channelID string) ([]*domain.UserSummary, error) {
	users := []*domain.UserSummary{}
	for key := range r.pairs {
		if key[1] == channelID {
			users = append(users, &domain.UserSummary{ID: key[0]})
		}
	}
	return users, nil
}

func (r *fakeSubscriptionRepo) Channels(_ context.Context, subscriberID string) ([]*domain.UserSummary, error) {
	users := []*domain.UserSummary{}
	for key := range r.pairs {
		if key[0] == subscriberID {
			users = append(users, &domain.UserSummary{ID: key[1]})
		}
	}
	return users, nil
}

func (r *fakeSubscriptionRepo) ChannelStats(_ context.Context, channelID, callerID string) (int64, int64, bool, error) {
	var subscribers, subscribedTo int64
	for key := range r.pairs {
		if key[1] == channelID {
			subscribers++
		}
		if key[0] == channelID {
			subscribedTo++
		}
	}
	return subscribers, subscribedTo, r.pairs[[2]string{callerID, channelID}], nil
}

type fakeVideoRepo struct {
	videos    map[string]*domain.Video
	createErr error
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[string]*domain.Video{}}
}

func (r *fakeVideoRepo) Create(_ context.Context, video *domain.Video) error {
	if r.createErr != nil {
		return r.createErr
	}
	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	clone := *video
	r.videos[video.ID] = &clone
	return nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id string) (*domain.Video, error) {
	v, ok := r.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *fakeVideoRepo) GetDetails(ctx context.Context, id, _ string) (*domain.VideoDetails, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.VideoDetails{Video: *v, OwnerDetails: domain.UserSummary{ID: v.Owner}}, nil
}

func (r *fakeVideoRepo) List(_ context.Context, filter repository.VideoFilter) ([]*domain.Video, int64, error) {
	var out []*domain.Video
	for _, v := range r.videos {
		if filter.OwnerID != "" && v.Owner != filter.OwnerID {
			continue
		}
		if !filter.IncludeUnpublished && !v.IsPublished {
			continue
		}
		clone := *v
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, id string) error {
	v, ok := r.videos[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Views++
	return nil
}

func (r *fakeVideoRepo) update(id string, fn func(v *domain.Video)) (*domain.Video, error) {
	v, ok := r.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fn(v)
	clone := *v
	return &clone, nil
}

func (r *fakeVideoRepo) UpdateDetails(_ context.Context, id, title, description string) (*domain.Video, error) {
	return r.update(id, func(v *domain.Video) { v.Title, v.Description = title, description })
}

func (r *fakeVideoRepo) UpdateThumbnail(_ context.Context, id, url string) (*domain.Video, error) {
	return r.update(id, func(v *domain.Video) { v.Thumbnail = url })
}

func (r *fakeVideoRepo) SetPublished(_ context.Context, id string, published bool) (*domain.Video, error) {
	return r.update(id, func(v *domain.Video) { v.IsPublished = published })
}

func (r *fakeVideoRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.videos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

type fakeLikeRepo struct {
	likes  map[domain.LikeTarget]map[string]bool
	videos *fakeVideoRepo
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[domain.LikeTarget]map[string]bool{}}
}

func (r *fakeLikeRepo) Toggle(_ context.Context, userID string, target domain.LikeTarget) (bool, error) {
	if r.likes[target][userID] {
		delete(r.likes[target], userID)
		return false, nil
	}
	if r.likes[target] == nil {
		r.likes[target] = map[string]bool{}
	}
	r.likes[target][userID] = true
	return true, nil
}

func (r *fakeLikeRepo) LikedVideos(_ context.Context, userID string) ([]*domain.VideoDetails, error) {
	var out []*domain.VideoDetails
	for target, users := range r.likes {
		if target.Kind != domain.LikeVideo || !users[userID] {
			continue
		}
		video := domain.Video{ID: target.ID, IsPublished: true}
		if r.videos != nil {
			v, ok := r.videos.videos[target.ID]
			if !ok || (!v.IsPublished && v.Owner != userID) {
				continue
			}
			video = *v
		}
		out = append(out, &domain.VideoDetails{Video: video, IsLiked: true})
	}
	return out, nil
}

func (r *fakeLikeRepo) count(target domain.LikeTarget) int {
	return len(r.likes[target])
}

type fakeCommentRepo struct {
	comments map[string]*domain.Comment
	likes    *fakeLikeRepo
}

func newFakeCommentRepo(likes *fakeLikeRepo) *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*domain.Comment{}, likes: likes}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCommentRepo) ListByVideo(_ context.Context, videoID, _ string, _, _ int) ([]*domain.CommentView, int64, error) {
	var out []*domain.CommentView
	for _, c := range r.comments {
		if c.VideoID == videoID {
			out = append(out, &domain.CommentView{Comment: *c})
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id, content string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Content = content
	clone := *c
	return &clone, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.comments, id)
	delete(r.likes.likes, domain.LikeTarget{Kind: domain.LikeComment, ID: id})
	return nil
}

type fakeTweetRepo struct {
	tweets map[string]*domain.Tweet
}

func newFakeTweetRepo() *fakeTweetRepo {
	return &fakeTweetRepo{tweets: map[string]*domain.Tweet{}}
}

func (r *fakeTweetRepo) Create(_ context.Context, tweet *domain.Tweet) error {
	if tweet.ID == "" {
		tweet.ID = uuid.New().String()
	}
	clone := *tweet
	r.tweets[tweet.ID] = &clone
	return nil
}

func (r *fakeTweetRepo) GetByID(_ context.Context, id string) (*domain.Tweet, error) {
	t, ok := r.tweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTweetRepo) ListByOwner(_ context.Context, ownerID, _ string) ([]*domain.TweetView, error) {
	var out []*domain.TweetView
	for _, t := range r.tweets {
		if t.Owner == ownerID {
			out = append(out, &domain.TweetView{Tweet: *t})
		}
	}
	return out, nil
}

func (r *fakeTweetRepo) UpdateContent(_ context.Context, id, content string) (*domain.Tweet, error) {
	t, ok := r.tweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Content = content
	clone := *t
	return &clone, nil
}

func (r *fakeTweetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tweets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tweets, id)
	return nil
}

// fakeStorage fails every upload with err, or only uploads under failPrefix
// when that is set.
type fakeStorage struct {
	keys       []string
	deleted    []string
	err        error
	failPrefix string
}

func (s *fakeStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if s.err != nil && (s.failPrefix == "" || strings.HasPrefix(key, s.failPrefix+"/")) {
		return "", s.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://media.test/" + key, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}
