package onboarding

import (
	"fmt"

	"github.com/incorp/backend/internal/domain/shared"
)

// SignatureType distinguishes the two capture modes
type SignatureType string

const (
	SignatureTypeNone     SignatureType = ""
	SignatureTypeDrawn    SignatureType = "drawn"
	SignatureTypeUploaded SignatureType = "uploaded"
)

// MaxSignatureFileSize is the upload size ceiling in bytes (5MB)
const MaxSignatureFileSize = 5 * 1024 * 1024

// allowedSignatureMIMETypes is the upload content-type allow-list
var allowedSignatureMIMETypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// ValidateSignatureUpload checks an uploaded signature file against the
// type allow-list and size ceiling. The checks reject without committing
// any state, so a failed upload leaves the declaration untouched.
func ValidateSignatureUpload(contentType string, size int64) error {
	if _, ok := allowedSignatureMIMETypes[contentType]; !ok {
		return shared.NewDomainError("INVALID_FILE_TYPE", "Signature file must be JPEG, PNG, GIF, or PDF")
	}
	if size <= 0 {
		return shared.NewDomainError("EMPTY_FILE", "Signature file is empty")
	}
	if size > MaxSignatureFileSize {
		return shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("Signature file cannot exceed %d bytes", MaxSignatureFileSize))
	}
	return nil
}

// SignatureExtension returns the canonical file extension for an allowed
// content type. Returns empty string for unlisted types.
func SignatureExtension(contentType string) string {
	return allowedSignatureMIMETypes[contentType]
}

// SignatureHasPreview reports whether a stored signature of the given
// content type can be rendered inline. PDF uploads have no visual preview.
func SignatureHasPreview(contentType string) bool {
	return contentType != "application/pdf" && SignatureExtension(contentType) != ""
}

// Point is a single coordinate in a drawn signature stroke
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pen-down segment of a drawn signature
type Stroke struct {
	Points []Point `json:"points"`
}

// ValidateStrokes rejects an empty drawing before rasterization
func ValidateStrokes(strokes []Stroke) error {
	for _, s := range strokes {
		if len(s.Points) > 0 {
			return nil
		}
	}
	return shared.NewDomainError("EMPTY_SIGNATURE", "Draw a signature before saving")
}
