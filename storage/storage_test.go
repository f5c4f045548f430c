package storage

import (
	"context"
	"strings"
	"testing"

	appconfig "elearn/config"
	courseModels "elearn/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketForContentType(t *testing.T) {
	appconfig.LoadConfig()

	assert.Equal(t, appconfig.AppConfig.VideoBucket, BucketForContentType(courseModels.ContentVideo))
	assert.Equal(t, appconfig.AppConfig.DocumentBucket, BucketForContentType(courseModels.ContentPDF))
	assert.Equal(t, appconfig.AppConfig.PresentationBucket, BucketForContentType(courseModels.ContentPresentation))

	// Unknown types fall back to the video bucket
	assert.Equal(t, appconfig.AppConfig.VideoBucket, BucketForContentType("audio"))
}

func TestLessonObjectKey(t *testing.T) {
	assert.Equal(t, "1/2/3/intro.mp4", LessonObjectKey(1, 2, 3, "intro.mp4"))
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	store := NewMemoryStorage()

	err := store.Upload(context.Background(), "course-videos", "1/2/3/intro.mp4",
		strings.NewReader("payload"), "video/mp4")
	require.NoError(t, err)

	assert.Equal(t, []byte("payload"), store.Objects["course-videos/1/2/3/intro.mp4"])
	assert.Equal(t, "http://storage.local/course-videos/1/2/3/intro.mp4",
		store.PublicURL("course-videos", "1/2/3/intro.mp4"))
}
