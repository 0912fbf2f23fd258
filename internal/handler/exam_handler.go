package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/response"
	"github.com/riedtal/admission-backend/internal/validator"
	"github.com/riedtal/admission-backend/internal/workflow"
)

// ExamHandler receives graded entrance exam results from the examination
// office.
type ExamHandler struct {
	engine *workflow.Engine
}

func NewExamHandler(engine *workflow.Engine) *ExamHandler {
	return &ExamHandler{engine: engine}
}

// Result godoc
// POST /api/v1/exams/:applicationId/result
func (h *ExamHandler) Result(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("applicationId"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ExamResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inst, err := h.engine.RecordExamResult(c.Request.Context(), id, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workflow": inst})
}
