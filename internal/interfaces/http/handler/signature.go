package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	onboardingapp "github.com/incorp/backend/internal/application/onboarding"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/interfaces/http/dto"
)

// SignatureHandler handles signature capture API endpoints
type SignatureHandler struct {
	BaseHandler
	signatureService *onboardingapp.SignatureService
}

// NewSignatureHandler creates a new SignatureHandler
func NewSignatureHandler(signatureService *onboardingapp.SignatureService) *SignatureHandler {
	return &SignatureHandler{
		signatureService: signatureService,
	}
}

// DrawSignatureRequest carries the stroke paths of a drawn signature
type DrawSignatureRequest struct {
	Strokes         []onboarding.Stroke `json:"strokes" binding:"required"`
	CompletedByName string              `json:"completed_by_name" binding:"max=200"`
}

// Draw captures a drawn signature from stroke paths. The capture records
// the client IP and user agent for the audit trail.
func (h *SignatureHandler) Draw(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	var req DrawSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.signatureService.Draw(c.Request.Context(), onboardingID, onboardingapp.DrawSignatureRequest{
		Strokes:         req.Strokes,
		CompletedByName: req.CompletedByName,
	}, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Upload captures a signature from a multipart file upload. The content
// type is sniffed server-side; PNG, JPEG, GIF, and PDF up to 5MB are
// accepted.
func (h *SignatureHandler) Upload(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A signature file is required")
		return
	}
	if fileHeader.Size > onboarding.MaxSignatureFileSize {
		h.ErrorWithCode(c, dto.ErrCodeFileTooLarge, "Signature file cannot exceed 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, onboarding.MaxSignatureFileSize+1))
	if err != nil {
		h.BadRequest(c, "Could not read the uploaded file")
		return
	}
	if int64(len(data)) > onboarding.MaxSignatureFileSize {
		h.ErrorWithCode(c, dto.ErrCodeFileTooLarge, "Signature file cannot exceed 5MB")
		return
	}

	resp, err := h.signatureService.Upload(c.Request.Context(), onboardingID, fileHeader.Filename, data, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get describes the stored signature with a short-lived download URL
func (h *SignatureHandler) Get(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	resp, err := h.signatureService.Get(c.Request.Context(), onboardingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Clear removes the signature so it can be captured again
func (h *SignatureHandler) Clear(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	if err := h.signatureService.Clear(c.Request.Context(), onboardingID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
