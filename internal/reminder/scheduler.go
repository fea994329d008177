package reminder

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"logleet-backend/internal/models"
	"logleet-backend/internal/schedule"
)

const (
	// DispatchQueue is the redis list the worker pool consumes from.
	DispatchQueue = "queue:reminder-dispatch"

	dueBatchLimit = 200
)

type dueLister interface {
	ListDue(ctx context.Context, today schedule.Date, limit int) ([]models.Reminder, error)
}

type queuePusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Scheduler periodically scans for reminders that have come due and pushes
// them onto the dispatch queue. The worker pool handles actual delivery and
// marks reminders sent, so a reminder enqueued twice across polls is
// deduplicated by the worker's delivery lock.
type Scheduler struct {
	reminders dueLister
	queue     queuePusher
	interval  time.Duration
	stopChan  chan struct{}
}

func NewScheduler(reminders dueLister, queue queuePusher, interval time.Duration) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		queue:     queue,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	go s.run()
	log.Printf("Reminder scheduler started (poll interval %s)", s.interval)
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *Scheduler) run() {
	// Scan on startup as well as by interval, so restarts do not delay
	// overdue reminders by a full poll cycle.
	s.enqueueDue()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.enqueueDue()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) enqueueDue() int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := s.reminders.ListDue(ctx, schedule.Today(), dueBatchLimit)
	if err != nil {
		log.Printf("Reminder scheduler: failed to list due reminders: %v", err)
		return 0
	}
	if len(due) == 0 {
		return 0
	}

	enqueued := 0
	for _, rem := range due {
		payload, err := json.Marshal(rem)
		if err != nil {
			log.Printf("Reminder scheduler: failed to marshal reminder %s: %v", rem.ID, err)
			continue
		}
		if err := s.queue.LPush(ctx, DispatchQueue, payload).Err(); err != nil {
			log.Printf("Reminder scheduler: failed to enqueue reminder %s: %v", rem.ID, err)
			continue
		}
		enqueued++
	}
	if enqueued > 0 {
		log.Printf("Reminder scheduler: enqueued %d due reminder(s)", enqueued)
	}
	return enqueued
}
