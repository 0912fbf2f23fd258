package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/riedtal/admission-backend/internal/repository"
	"github.com/riedtal/admission-backend/internal/response"
	"github.com/riedtal/admission-backend/internal/workflow"
)

// failFromError maps domain errors to the API error envelope.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicateEmail):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateEmail)
	case errors.Is(err, workflow.ErrGradeRequired):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrGradeRequired)
	case errors.Is(err, workflow.ErrInvalidStage):
		response.Fail(c, http.StatusConflict, response.ErrInvalidStage)
	case errors.Is(err, workflow.ErrTerminalStage):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyDecided)
	case errors.Is(err, workflow.ErrPaymentNotOpen):
		response.Fail(c, http.StatusConflict, response.ErrPaymentNotOpen)
	case errors.Is(err, workflow.ErrProgramMisconfigured):
		response.Fail(c, http.StatusInternalServerError, response.ErrProgramMisconfigured)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
