package ingest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifearrow/platform/internal/videos"
)

type recordingNotifier struct {
	events []string
}

func (r *recordingNotifier) Broadcast(event string, _ interface{}) {
	r.events = append(r.events, event)
}

func processTask(t *testing.T, videoID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(ProcessPayload{VideoID: videoID})
	require.NoError(t, err)
	return asynq.NewTask(TaskVideoProcess, payload)
}

func TestProcessTaskActivatesVideo(t *testing.T) {
	ctx := context.Background()
	catalog := videos.NewCatalog(videos.NewMemStore(), nil, nil)

	v, err := catalog.Create(ctx, videos.UploadRequest{
		Title:      "Intro",
		UniqueID:   "intro-video",
		Category:   videos.CategoryIntro,
		UploadedBy: "p1",
	})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	h := NewProcessHandler(catalog, notifier)
	require.NoError(t, h.ProcessTask(ctx, processTask(t, v.ID)))

	got, err := catalog.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, videos.StatusActive, got.Status)
	assert.Equal(t, []string{"video:status"}, notifier.events)
}

func TestProcessTaskToleratesDeletedVideo(t *testing.T) {
	ctx := context.Background()
	catalog := videos.NewCatalog(videos.NewMemStore(), nil, nil)

	v, err := catalog.Create(ctx, videos.UploadRequest{
		Title:      "Short Lived",
		UniqueID:   "short-lived",
		Category:   videos.CategoryIntro,
		UploadedBy: "p1",
	})
	require.NoError(t, err)
	require.NoError(t, catalog.Delete(ctx, v.ID))

	h := NewProcessHandler(catalog, nil)
	assert.NoError(t, h.ProcessTask(ctx, processTask(t, v.ID)))
}

func TestProcessTaskRejectsGarbagePayload(t *testing.T) {
	catalog := videos.NewCatalog(videos.NewMemStore(), nil, nil)
	h := NewProcessHandler(catalog, nil)

	err := h.ProcessTask(context.Background(), asynq.NewTask(TaskVideoProcess, []byte("{not json")))
	assert.Error(t, err)
}
