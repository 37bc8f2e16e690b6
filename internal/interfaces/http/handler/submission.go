package handler

import (
	"github.com/gin-gonic/gin"
	onboardingapp "github.com/incorp/backend/internal/application/onboarding"
)

// SubmissionHandler handles the final application submission endpoint
type SubmissionHandler struct {
	BaseHandler
	submissionService *onboardingapp.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissionService *onboardingapp.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// Submit flushes pending draft state, validates the whole form, and
// transitions the session from draft to submitted. Submitting twice, or
// while another submission for the same session is running, conflicts.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	resp, err := h.submissionService.Submit(c.Request.Context(), onboardingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
