package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/response"
	"github.com/riedtal/admission-backend/internal/validator"
	"github.com/riedtal/admission-backend/internal/workflow"
)

// TaskLister lists the open document verification tasks.
type TaskLister interface {
	ListPendingVerification(ctx context.Context) ([]model.VerificationTask, error)
}

// TaskHandler serves the admission office's verification worklist.
type TaskHandler struct {
	engine *workflow.Engine
	tasks  TaskLister
}

func NewTaskHandler(engine *workflow.Engine, tasks TaskLister) *TaskHandler {
	return &TaskHandler{engine: engine, tasks: tasks}
}

// List godoc
// GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.tasks.ListPendingVerification(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if tasks == nil {
		tasks = []model.VerificationTask{}
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": tasks})
}

// Complete godoc
// POST /api/v1/tasks/:applicationId/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("applicationId"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CompleteVerificationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inst, err := h.engine.CompleteVerification(c.Request.Context(), id, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workflow": inst})
}
