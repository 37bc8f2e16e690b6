package handler

import (
	"github.com/gin-gonic/gin"
	onboardingapp "github.com/incorp/backend/internal/application/onboarding"
)

// StepHandler handles wizard step navigation endpoints
type StepHandler struct {
	BaseHandler
	stepService *onboardingapp.StepService
}

// NewStepHandler creates a new StepHandler
func NewStepHandler(stepService *onboardingapp.StepService) *StepHandler {
	return &StepHandler{
		stepService: stepService,
	}
}

// GoToStepRequest jumps directly to a step index
type GoToStepRequest struct {
	Index *int `json:"index" binding:"required"`
}

// Steps describes the session's step flow and current position
func (h *StepHandler) Steps(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	resp, err := h.stepService.Steps(c.Request.Context(), onboardingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Next advances to the next step. The current step must validate before
// the position moves.
func (h *StepHandler) Next(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	resp, err := h.stepService.Next(c.Request.Context(), onboardingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Prev moves back one step without validation
func (h *StepHandler) Prev(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	resp, err := h.stepService.Prev(c.Request.Context(), onboardingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GoTo jumps directly to a step by index without validating steps in
// between; the full form is re-validated at submission
func (h *StepHandler) GoTo(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	var req GoToStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.stepService.GoTo(c.Request.Context(), onboardingID, *req.Index)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
