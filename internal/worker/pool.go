package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"logleet-backend/internal/models"
	"logleet-backend/internal/reminder"
	"logleet-backend/internal/repository"
	"logleet-backend/internal/services"
)

const maxDeliveryAttempts = 3

// deliveryJob is the queue envelope. RetryCount travels with the job so a
// re-queued delivery remembers how many times it already failed.
type deliveryJob struct {
	Reminder   models.Reminder `json:"reminder"`
	RetryCount int             `json:"retry_count"`
}

type Pool struct {
	redis        *redis.Client
	push         *services.PushService
	email        *services.EmailService
	userRepo     *repository.UserRepo
	deviceRepo   *repository.DeviceRepo
	reminderRepo *repository.ReminderRepo
	workerCount  int
	stopChan     chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	push *services.PushService,
	email *services.EmailService,
	userRepo *repository.UserRepo,
	deviceRepo *repository.DeviceRepo,
	reminderRepo *repository.ReminderRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:        redisClient,
		push:         push,
		email:        email,
		userRepo:     userRepo,
		deviceRepo:   deviceRepo,
		reminderRepo: reminderRepo,
		workerCount:  workerCount,
		stopChan:     make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d delivery worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, reminder.DispatchQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		// The scheduler enqueues bare reminders; re-queued jobs carry the
		// retry envelope. Try the envelope first, then the bare form.
		var job deliveryJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil || job.Reminder.ID == uuid.Nil {
			if err := json.Unmarshal([]byte(result[1]), &job.Reminder); err != nil || job.Reminder.ID == uuid.Nil {
				log.Printf("Worker %d: failed to parse delivery job: %v", id, err)
				continue
			}
			job.RetryCount = 0
		}

		// A reminder can sit on the queue more than once when the scheduler
		// re-scans before delivery finishes. The lock keeps it single-send.
		lockKey := fmt.Sprintf("reminder_lock:%s", job.Reminder.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue
		}

		log.Printf("Worker %d: delivering reminder %s", id, job.Reminder.ID)

		if err := p.deliver(ctx, &job.Reminder); err != nil {
			p.handleFailure(ctx, &job, err)
			p.redis.Del(ctx, lockKey)
			continue
		}

		if err := p.reminderRepo.MarkSent(ctx, job.Reminder.ID); err != nil {
			log.Printf("Worker %d: failed to mark reminder %s sent: %v", id, job.Reminder.ID, err)
		}

		p.publishDelivered(ctx, &job.Reminder)
		p.redis.Del(ctx, lockKey)
	}
}

// deliver pushes to every registered device and falls back to email when the
// user has none.
func (p *Pool) deliver(ctx context.Context, rem *models.Reminder) error {
	devices, err := p.deviceRepo.ListByUser(ctx, rem.UserID)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		user, err := p.userRepo.GetByID(ctx, rem.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user for email fallback: %w", err)
		}
		problemName := problemNameFromBody(rem.Body)
		if err := p.email.SendReminderEmail(user.Email, problemName, ""); err != nil {
			return fmt.Errorf("email fallback failed: %w", err)
		}
		return nil
	}

	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.ExpoPushToken)
	}

	data := map[string]string{"record_id": rem.RecordID.String()}
	if err := p.push.Send(ctx, tokens, rem.Title, rem.Body, data); err != nil {
		return fmt.Errorf("push delivery failed: %w", err)
	}
	return nil
}

func (p *Pool) handleFailure(ctx context.Context, job *deliveryJob, err error) {
	job.RetryCount++
	errMsg := err.Error()

	if job.RetryCount < maxDeliveryAttempts {
		log.Printf("Reminder %s delivery failed (attempt %d): %s, retrying", job.Reminder.ID, job.RetryCount, errMsg)

		jobBytes, _ := json.Marshal(job)
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), reminder.DispatchQueue, string(jobBytes))
		})
		return
	}

	// Max retries reached. Leave the reminder unsent so the next scheduler
	// scan picks it up again once the lock expires.
	log.Printf("Reminder %s delivery failed permanently for now: %s", job.Reminder.ID, errMsg)
}

func (p *Pool) publishDelivered(ctx context.Context, rem *models.Reminder) {
	payload, err := json.Marshal(models.WSMessage{
		Type: "reminder_sent",
		Payload: models.RecordChange{
			RecordID: rem.RecordID,
		},
	})
	if err != nil {
		return
	}
	p.redis.Publish(ctx, "user_updates:"+rem.UserID.String(), payload)
}

// problemNameFromBody pulls the problem name back out of the notification
// body for the email template.
func problemNameFromBody(body string) string {
	const prefix = "It's time to revisit the problem: "
	if len(body) > len(prefix) && body[:len(prefix)] == prefix {
		return body[len(prefix):]
	}
	return body
}
