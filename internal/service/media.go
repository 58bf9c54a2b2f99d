package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/prperemyshlev/videotube/pkg/storage"
)

const (
	avatarPrefix    = "avatars"
	coverPrefix     = "covers"
	videoPrefix     = "videos"
	thumbnailPrefix = "thumbnails"
)

// uploadMedia stores file under a fresh key and returns both the key and the
// public URL. The key is what discardMedia needs if a later step fails.
func uploadMedia(ctx context.Context, store MediaStorage, prefix string, file *MediaFile) (key, url string, err error) {
	key = storage.ObjectKey(prefix, file.Name, time.Now())
	url, err = store.Upload(ctx, key, file.Body, file.Size, file.ContentType)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// discardMedia removes objects that were uploaded for a write that never
// landed. Failures are logged and otherwise ignored.
func discardMedia(ctx context.Context, store MediaStorage, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			zap.L().Warn("failed to discard orphaned media", zap.String("key", key), zap.Error(err))
		}
	}
}
