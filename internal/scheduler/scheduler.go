// Package scheduler schedules the delayed payment check timers. The asynq
// implementation persists tasks in Redis so scheduled checks survive process
// restarts and fire at least once.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/riedtal/admission-backend/internal/config"
)

// PaymentCheckPayload is the task payload for both payment check timers.
type PaymentCheckPayload struct {
	ApplicationID int64 `json:"application_id"`
}

// Scheduler schedules delayed workflow timers.
type Scheduler interface {
	// SchedulePaymentCheckFirst fires the first payment check after delay.
	SchedulePaymentCheckFirst(ctx context.Context, applicationID int64, delay time.Duration) error
	// SchedulePaymentCheckFinal fires the final payment check after delay.
	SchedulePaymentCheckFinal(ctx context.Context, applicationID int64, delay time.Duration) error
}

// AsynqScheduler enqueues timers as delayed asynq tasks. Task IDs are
// deterministic per application, so re-scheduling an already pending check
// is a no-op instead of a duplicate timer.
type AsynqScheduler struct {
	client *asynq.Client
	log    zerolog.Logger
}

// NewAsynqScheduler creates a new AsynqScheduler.
func NewAsynqScheduler(client *asynq.Client, log zerolog.Logger) *AsynqScheduler {
	return &AsynqScheduler{
		client: client,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *AsynqScheduler) SchedulePaymentCheckFirst(ctx context.Context, applicationID int64, delay time.Duration) error {
	return s.enqueue(ctx, config.TaskTypePaymentCheckFirst, config.TaskKey.PaymentCheckFirstID(applicationID), applicationID, delay)
}

func (s *AsynqScheduler) SchedulePaymentCheckFinal(ctx context.Context, applicationID int64, delay time.Duration) error {
	return s.enqueue(ctx, config.TaskTypePaymentCheckFinal, config.TaskKey.PaymentCheckFinalID(applicationID), applicationID, delay)
}

func (s *AsynqScheduler) enqueue(ctx context.Context, taskType, taskID string, applicationID int64, delay time.Duration) error {
	payload, err := json.Marshal(PaymentCheckPayload{ApplicationID: applicationID})
	if err != nil {
		return fmt.Errorf("marshal payment check payload: %w", err)
	}

	task := asynq.NewTask(taskType, payload)
	info, err := s.client.EnqueueContext(ctx, task,
		asynq.TaskID(taskID),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			s.log.Debug().
				Str("task_id", taskID).
				Msg("Timer already scheduled, skipping")
			return nil
		}
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	s.log.Info().
		Str("task_id", info.ID).
		Str("type", taskType).
		Int64("application_id", applicationID).
		Dur("delay", delay).
		Msg("Payment check scheduled")
	return nil
}

// FakeScheduler records scheduled timers for tests.
type FakeScheduler struct {
	FirstChecks map[int64]time.Duration
	FinalChecks map[int64]time.Duration
}

// NewFakeScheduler creates a new FakeScheduler.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{
		FirstChecks: make(map[int64]time.Duration),
		FinalChecks: make(map[int64]time.Duration),
	}
}

func (f *FakeScheduler) SchedulePaymentCheckFirst(_ context.Context, applicationID int64, delay time.Duration) error {
	f.FirstChecks[applicationID] = delay
	return nil
}

func (f *FakeScheduler) SchedulePaymentCheckFinal(_ context.Context, applicationID int64, delay time.Duration) error {
	f.FinalChecks[applicationID] = delay
	return nil
}
