package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/lifearrow/platform/internal/videos"
)

// ProcessHandler applies the processing→active transition when the ingest
// step for a video completes. The catalog guards against records deleted
// before the completion fires, so the handler never fails on a missing id.
type ProcessHandler struct {
	catalog  *videos.Catalog
	notifier EventNotifier
}

func NewProcessHandler(catalog *videos.Catalog, notifier EventNotifier) *ProcessHandler {
	return &ProcessHandler{catalog: catalog, notifier: notifier}
}

func (h *ProcessHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p ProcessPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	if err := h.catalog.CompleteProcessing(ctx, p.VideoID); err != nil {
		return fmt.Errorf("complete processing %s: %w", p.VideoID, err)
	}
	log.Printf("ingest: processing complete for video %s", p.VideoID)

	if h.notifier != nil {
		h.notifier.Broadcast("video:status", map[string]interface{}{
			"video_id": p.VideoID,
			"status":   string(videos.StatusActive),
		})
	}
	return nil
}
