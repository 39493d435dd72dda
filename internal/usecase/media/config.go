package media

import (
	"errors"
	"time"
)

const MinFileSize = 1

// DownloadURLTTL is how long presigned download links stay valid.
const DownloadURLTTL = 1 * time.Hour

var AllowedMimeTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"image/gif":       true,
	"image/avif":      true,
	"image/tiff":      true,
	"application/pdf": true,
}

func IsMimeTypeAllowed(mimeType string) bool {
	return AllowedMimeTypes[mimeType]
}

func IsImage(mimeType string) bool {
	switch mimeType {
	case "image/png", "image/jpeg", "image/webp", "image/gif", "image/avif", "image/tiff":
		return true
	}
	return false
}

func IsPdf(mimeType string) bool {
	return mimeType == "application/pdf"
}

func MimeTypeToExtension(mimeType string) (string, error) {
	switch mimeType {
	case "image/png":
		return ".png", nil
	case "image/jpeg":
		return ".jpg", nil
	case "image/webp":
		return ".webp", nil
	case "image/gif":
		return ".gif", nil
	case "image/avif":
		return ".avif", nil
	case "image/tiff":
		return ".tiff", nil
	case "application/pdf":
		return ".pdf", nil
	default:
		return "", errors.New("unknown mime-type " + mimeType)
	}
}
