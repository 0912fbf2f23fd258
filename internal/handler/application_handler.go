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

type ApplicationHandler struct {
	engine *workflow.Engine
}

func NewApplicationHandler(engine *workflow.Engine) *ApplicationHandler {
	return &ApplicationHandler{engine: engine}
}

// Submit godoc
// POST /api/v1/applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req model.SubmitApplicationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.engine.Submit(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"application": view})
}

// Get godoc
// GET /api/v1/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.engine.GetApplication(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": view})
}
