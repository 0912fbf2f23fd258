package config

import (
	"fmt"
)

// Asynq task type names for the payment escalation timers.
const (
	TaskTypePaymentCheckFirst = "payment:check:first"
	TaskTypePaymentCheckFinal = "payment:check:final"
)

type TaskKeyStruct struct{}

func NewTaskKeyStruct() *TaskKeyStruct {
	return &TaskKeyStruct{}
}

// PaymentCheckFirstID returns the deterministic task ID for the first payment
// check of an application. Deterministic IDs make duplicate scheduling a no-op.
func (r *TaskKeyStruct) PaymentCheckFirstID(applicationID int64) string {
	return fmt.Sprintf("payment-check-1-%d", applicationID)
}

// PaymentCheckFinalID returns the deterministic task ID for the final payment
// check of an application.
func (r *TaskKeyStruct) PaymentCheckFinalID(applicationID int64) string {
	return fmt.Sprintf("payment-check-2-%d", applicationID)
}

var TaskKey = NewTaskKeyStruct()
