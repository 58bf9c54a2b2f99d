package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	key := ObjectKey("avatars", "Me.PNG", now)

	assert.Regexp(t, regexp.MustCompile(`^avatars/2024/03/05/[0-9a-f-]{36}\.png$`), key)
	assert.NotEqual(t, key, ObjectKey("avatars", "Me.PNG", now))
}

func TestURL(t *testing.T) {
	s := &S3{baseURL: "http://localhost:9000/videotube"}

	assert.Equal(t, "http://localhost:9000/videotube/videos/a%20b.mp4", s.URL("videos/a b.mp4"))
}
