package workflow

import "errors"

var (
	// ErrInvalidStage is returned when an event arrives while the
	// application is in a stage that cannot handle it.
	ErrInvalidStage = errors.New("event not valid in current workflow stage")

	// ErrTerminalStage is returned when an event arrives for an already
	// decided application.
	ErrTerminalStage = errors.New("application already reached a final decision")

	// ErrGradeRequired is returned on submission to a numerus clausus
	// program without a high school grade.
	ErrGradeRequired = errors.New("high school grade is required for this study program")

	// ErrProgramMisconfigured marks study program rows the workflow cannot
	// route, e.g. an unknown admission type or a numerus clausus program
	// without a seat limit. Operator intervention is required.
	ErrProgramMisconfigured = errors.New("study program is misconfigured")

	// ErrPaymentNotOpen is returned when a payment update arrives for an
	// application that is not awaiting payment.
	ErrPaymentNotOpen = errors.New("application is not awaiting payment")
)
