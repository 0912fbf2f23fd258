package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/notifier"
)

// urgentReminderWindow marks reminders as urgent when the payment deadline
// is less than a week away.
const urgentReminderWindow = 7 * 24 * time.Hour

// UpdatePayment records a tuition fee payment status reported by the fee
// ledger. The payment only takes effect on the workflow at the next payment
// check timer.
func (e *Engine) UpdatePayment(ctx context.Context, applicationID int64, paid bool) (*model.PaymentStatusView, error) {
	app, err := e.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != model.StatusAccepted {
		return nil, ErrPaymentNotOpen
	}
	if err := e.apps.SetTuitionFeePaid(ctx, applicationID, paid); err != nil {
		return nil, fmt.Errorf("update tuition fee flag: %w", err)
	}
	app.TuitionFeePaid = paid

	e.log.Info().
		Int64("application_id", applicationID).
		Bool("paid", paid).
		Msg("Tuition fee payment status updated")

	return e.PaymentStatus(ctx, applicationID)
}

// PaymentStatus reports the payment state of an application.
func (e *Engine) PaymentStatus(ctx context.Context, applicationID int64) (*model.PaymentStatusView, error) {
	app, err := e.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	inst, err := e.instances.Get(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("load workflow instance: %w", err)
	}

	view := &model.PaymentStatusView{
		ApplicationID:  applicationID,
		Status:         app.Status,
		TuitionFeePaid: app.TuitionFeePaid,
	}
	if adm := inst.Context.Admission; adm != nil {
		view.Reference = adm.Reference
		view.FeeAmountEUR = adm.FeeAmountEUR
		deadline := adm.PaymentDeadline
		view.PaymentDeadline = &deadline
	}
	return view, nil
}

// HandlePaymentCheckFirst is the first payment timer, a week after the
// admission letter. Paid applications are enrolled; unpaid ones get a
// reminder and the final check is scheduled. Already processed timers and
// applications that moved on are a no-op, so a redelivered task is harmless.
func (e *Engine) HandlePaymentCheckFirst(ctx context.Context, applicationID int64) error {
	app, program, inst, err := e.load(ctx, applicationID)
	if err != nil {
		return err
	}
	if inst.Stage != model.StageAwaitingPaymentFirst {
		e.log.Debug().
			Int64("application_id", applicationID).
			Str("stage", string(inst.Stage)).
			Msg("First payment check fired in a different stage, skipping")
		return nil
	}

	if app.TuitionFeePaid {
		return e.enroll(ctx, app, program, inst)
	}

	// An unreadable or elapsed deadline counts as expired. Expiry at the
	// first check escalates the reminder, the admission is only revoked at
	// the final check.
	now := e.now()
	adm := inst.Context.Admission
	expired := adm == nil || now.After(adm.PaymentDeadline)
	urgent := expired
	if !expired {
		urgent = adm.PaymentDeadline.Sub(now) < urgentReminderWindow
	}
	if inst.Context.Payment == nil {
		inst.Context.Payment = &model.PaymentRecord{}
	}
	inst.Context.Payment.FirstCheckAt = &now
	inst.Context.Payment.ReminderSentAt = &now
	inst.Context.Payment.ReminderUrgent = urgent
	inst.Stage = model.StageAwaitingPaymentFinal
	if err := e.instances.Update(ctx, inst); err != nil {
		return fmt.Errorf("persist first payment check: %w", err)
	}

	if err := e.scheduler.SchedulePaymentCheckFinal(ctx, applicationID, e.cfg.Payment.SecondCheckAfter); err != nil {
		return fmt.Errorf("schedule final payment check: %w", err)
	}

	e.log.Info().
		Int64("application_id", applicationID).
		Bool("urgent", urgent).
		Msg("Payment reminder sent")

	if adm != nil {
		e.notify(ctx, notifier.PaymentReminder(app, *adm, urgent))
	}
	return nil
}

// HandlePaymentCheckFinal is the final payment timer. Paid applications are
// enrolled; unpaid ones lose their admission.
func (e *Engine) HandlePaymentCheckFinal(ctx context.Context, applicationID int64) error {
	app, program, inst, err := e.load(ctx, applicationID)
	if err != nil {
		return err
	}
	if inst.Stage != model.StageAwaitingPaymentFinal {
		e.log.Debug().
			Int64("application_id", applicationID).
			Str("stage", string(inst.Stage)).
			Msg("Final payment check fired in a different stage, skipping")
		return nil
	}

	if app.TuitionFeePaid {
		return e.enroll(ctx, app, program, inst)
	}
	return e.revokeAdmission(ctx, app, inst, e.now())
}

// revokeAdmission withdraws an issued admission after the payment deadline
// and rejects the application.
func (e *Engine) revokeAdmission(ctx context.Context, app *model.Application, inst *model.WorkflowInstance, now time.Time) error {
	adm := inst.Context.Admission
	if adm != nil {
		adm.Revoked = true
	}
	if inst.Context.Payment == nil {
		inst.Context.Payment = &model.PaymentRecord{}
	}
	inst.Context.Payment.FinalCheckAt = &now
	inst.Context.Payment.DeadlineExpired = adm == nil || now.After(adm.PaymentDeadline)

	e.log.Info().
		Int64("application_id", app.ID).
		Msg("Admission revoked, payment not received")

	return e.reject(ctx, app, inst, model.RejectionPaymentNotReceived,
		"The tuition fee was not received before the payment deadline.")
}
