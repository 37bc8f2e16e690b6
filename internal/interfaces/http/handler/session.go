package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	onboardingapp "github.com/incorp/backend/internal/application/onboarding"
)

// SessionHandler handles onboarding session API endpoints
type SessionHandler struct {
	BaseHandler
	sessionService *onboardingapp.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService *onboardingapp.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// CreateSessionRequest represents a request to start a new onboarding session
type CreateSessionRequest struct {
	Jurisdiction   string `json:"jurisdiction" binding:"required,min=3,max=20"`
	ApplicantEmail string `json:"applicant_email" binding:"required,email,max=200"`
}

// ResumeSessionRequest re-binds an existing session from a new device.
// The resume code was shown exactly once, at session creation.
type ResumeSessionRequest struct {
	OnboardingID string `json:"onboarding_id" binding:"required,uuid"`
	ResumeCode   string `json:"resume_code" binding:"required,min=8,max=64"`
}

// Create starts a new onboarding session for a jurisdiction.
// The response is the only place the resume code ever appears in clear.
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.sessionService.Create(c.Request.Context(), onboardingapp.CreateSessionRequest{
		Jurisdiction:   req.Jurisdiction,
		ApplicantEmail: req.ApplicantEmail,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Resume exchanges a valid resume code for a fresh intake token
func (h *SessionHandler) Resume(c *gin.Context) {
	var req ResumeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	onboardingID, err := uuid.Parse(req.OnboardingID)
	if err != nil {
		h.BadRequest(c, "Invalid onboarding ID")
		return
	}

	resp, err := h.sessionService.Resume(c.Request.Context(), onboardingID, onboardingapp.ResumeSessionRequest{
		ResumeCode: req.ResumeCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns the session bound to the intake token
func (h *SessionHandler) Get(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	resp, err := h.sessionService.GetByID(c.Request.Context(), onboardingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
