// Package worker runs the asynq task server processing the delayed payment
// check timers. Handlers are idempotent, so asynq's at-least-once delivery
// combined with retries gives each timer exactly-once effect.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/riedtal/admission-backend/internal/config"
	"github.com/riedtal/admission-backend/internal/database"
	"github.com/riedtal/admission-backend/internal/scheduler"
	"github.com/riedtal/admission-backend/internal/workflow"
)

// PaymentWorker consumes the payment check tasks and feeds them to the
// workflow engine.
type PaymentWorker struct {
	engine *workflow.Engine
	log    zerolog.Logger
}

// NewPaymentWorker creates a new PaymentWorker.
func NewPaymentWorker(engine *workflow.Engine, log zerolog.Logger) *PaymentWorker {
	return &PaymentWorker{
		engine: engine,
		log:    log.With().Str("component", "payment_worker").Logger(),
	}
}

// Register wires the payment task types into the mux.
func (w *PaymentWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(config.TaskTypePaymentCheckFirst, w.handleFirstCheck)
	mux.HandleFunc(config.TaskTypePaymentCheckFinal, w.handleFinalCheck)
}

func (w *PaymentWorker) handleFirstCheck(ctx context.Context, t *asynq.Task) error {
	payload, err := decodePayload(t)
	if err != nil {
		return err
	}
	w.log.Info().
		Int64("application_id", payload.ApplicationID).
		Msg("Processing first payment check")
	return w.engine.HandlePaymentCheckFirst(ctx, payload.ApplicationID)
}

func (w *PaymentWorker) handleFinalCheck(ctx context.Context, t *asynq.Task) error {
	payload, err := decodePayload(t)
	if err != nil {
		return err
	}
	w.log.Info().
		Int64("application_id", payload.ApplicationID).
		Msg("Processing final payment check")
	return w.engine.HandlePaymentCheckFinal(ctx, payload.ApplicationID)
}

func decodePayload(t *asynq.Task) (scheduler.PaymentCheckPayload, error) {
	var p scheduler.PaymentCheckPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Malformed payloads never become valid, skip retries.
		return p, fmt.Errorf("unmarshal payment check payload: %v: %w", err, asynq.SkipRetry)
	}
	return p, nil
}

// NewServer builds the asynq server processing the timer queue.
func NewServer(cfg *config.Config, log zerolog.Logger) (*asynq.Server, error) {
	opt, err := database.AsynqRedisOpt(cfg)
	if err != nil {
		return nil, err
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 4,
		Logger:      asynqLogger{log.With().Str("component", "asynq").Logger()},
	})
	return srv, nil
}

// asynqLogger adapts zerolog to asynq's logger interface.
type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
