package ingest

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lifearrow/platform/internal/videos"
)

const TaskVideoProcess = "video:process"

type ProcessPayload struct {
	VideoID string `json:"video_id"`
}

// EventNotifier receives status events for connected dashboards.
type EventNotifier interface {
	Broadcast(event string, data interface{})
}

// Enqueuer satisfies videos.Enqueuer, scheduling the processing-complete
// task with an optional delay that stands in for real media processing.
type Enqueuer struct {
	queue *Queue
	delay time.Duration
}

func NewEnqueuer(queue *Queue, delay time.Duration) *Enqueuer {
	return &Enqueuer{queue: queue, delay: delay}
}

func (e *Enqueuer) EnqueueProcess(ctx context.Context, videoID string) error {
	opts := []asynq.Option{}
	if e.delay > 0 {
		opts = append(opts, asynq.ProcessIn(e.delay))
	}
	_, err := e.queue.EnqueueUnique(TaskVideoProcess, ProcessPayload{VideoID: videoID},
		TaskVideoProcess+":"+videoID, opts...)
	return err
}

func RegisterHandlers(q *Queue, catalog *videos.Catalog, notifier EventNotifier) {
	q.RegisterHandler(TaskVideoProcess, NewProcessHandler(catalog, notifier))
}
