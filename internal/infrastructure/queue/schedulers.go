package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"newsletter-italiane-backend/internal/config"
	"newsletter-italiane-backend/internal/shared"
	"newsletter-italiane-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerReviewReminderJob()
}

// ================================================
// JOB: Pending Review Reminder
// ================================================
// Ricorda agli admin le newsletter ferme in revisione
// oltre la soglia configurata.
func (s *Scheduler) registerReviewReminderJob() error {
	payload, err := json.Marshal(shared.ReviewReminderPayload{
		OlderThanDays: int(s.jobConfig.ReviewReminderAge.Hours() / 24),
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeReviewReminder, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.ReviewReminderCron,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ReviewReminder job", err)
		return err
	}

	logger.Info("✓ Registered ReviewReminder job", map[string]interface{}{
		"cron": s.jobConfig.ReviewReminderCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
