package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	onboardingapp "github.com/incorp/backend/internal/application/onboarding"
)

// DraftHandler handles draft autosave API endpoints
type DraftHandler struct {
	BaseHandler
	draftService *onboardingapp.DraftService
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(draftService *onboardingapp.DraftService) *DraftHandler {
	return &DraftHandler{
		draftService: draftService,
	}
}

// UpdateDraftRequest carries the full wizard state as a raw object
type UpdateDraftRequest struct {
	State json.RawMessage `json:"state" binding:"required"`
}

// Get returns the stored draft with typed defaults in place of absent
// or malformed sections
func (h *DraftHandler) Get(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	resp, err := h.draftService.Get(c.Request.Context(), onboardingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update accepts a draft write. The write is acknowledged once queued;
// it reaches the store on the next debounce or autosave tick.
func (h *DraftHandler) Update(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	var req UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.draftService.Update(c.Request.Context(), onboardingID, onboardingapp.UpdateDraftRequest{
		State: req.State,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"queued": true})
}

// Flush forces pending draft state to the store and returns the result.
// Clients call this before navigation or page unload.
func (h *DraftHandler) Flush(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	resp, err := h.draftService.Flush(c.Request.Context(), onboardingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
