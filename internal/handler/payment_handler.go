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

// PaymentHandler exposes the tuition fee ledger simulation.
type PaymentHandler struct {
	engine *workflow.Engine
}

func NewPaymentHandler(engine *workflow.Engine) *PaymentHandler {
	return &PaymentHandler{engine: engine}
}

// UpdateStatus godoc
// POST /api/v1/payments/update-status
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var req model.PaymentUpdateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.engine.UpdatePayment(c.Request.Context(), req.ApplicationID, *req.Paid)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": view})
}

// Get godoc
// GET /api/v1/payments/:applicationId
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("applicationId"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.engine.PaymentStatus(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": view})
}
