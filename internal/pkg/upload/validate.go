package upload

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	// SVG stays out: it can carry script
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// ValidateImageBySniff checks the provided filename (extension) and the first bytes (head)
// against a whitelist of image types. Returns the detected mime type or a validation error.
// An empty filename skips the extension check.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	if filename != "" {
		ext := strings.ToLower(filepath.Ext(filename))
		if !allowedExt[ext] {
			return "", apperror.Validation("only JPG, JPEG, PNG, GIF, WEBP and BMP photos are supported")
		}
	}

	detected := DetectImageType(head)

	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", apperror.Validation("invalid file type: HTML content is not allowed")
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return "", apperror.Validation("SVG and XML files are not supported")
	}

	if allowedMime[detected] {
		return detected, nil
	}
	return "", apperror.Validation("the file is not a supported photo")
}

// DetectImageType sniffs the content type from the leading bytes.
func DetectImageType(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
