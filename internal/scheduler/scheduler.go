package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lifearrow/platform/internal/auth"
	"github.com/lifearrow/platform/internal/videos"
)

// Scheduler runs the periodic maintenance jobs: re-enqueueing videos
// stuck in processing and purging expired sessions.
type Scheduler struct {
	cron        *cron.Cron
	catalog     *videos.Catalog
	ingest      videos.Enqueuer
	sessions    *auth.SessionRepository
	staleCutoff time.Duration
}

func New(catalog *videos.Catalog, ingest videos.Enqueuer, sessions *auth.SessionRepository, staleCutoff time.Duration) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		catalog:     catalog,
		ingest:      ingest,
		sessions:    sessions,
		staleCutoff: staleCutoff,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("*/5 * * * *", s.sweepStaleProcessing); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@hourly", s.purgeExpiredSessions); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("scheduler: started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("scheduler: stopped")
}

func (s *Scheduler) sweepStaleProcessing() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stale, err := s.catalog.ListStaleProcessing(ctx, s.staleCutoff)
	if err != nil {
		log.Printf("scheduler: stale sweep failed: %v", err)
		return
	}
	for _, v := range stale {
		log.Printf("scheduler: re-enqueueing stuck video %s (%s)", v.ID, v.UniqueID)
		if err := s.ingest.EnqueueProcess(ctx, v.ID); err != nil {
			log.Printf("scheduler: re-enqueue %s failed: %v", v.ID, err)
		}
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	n, err := s.sessions.DeleteExpired()
	if err != nil {
		log.Printf("scheduler: session purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("scheduler: purged %d expired sessions", n)
	}
}
