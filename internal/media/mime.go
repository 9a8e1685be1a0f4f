package media

import (
	"fmt"
	"mime"
	"strings"
)

// Product imagery only; the storefront renders nothing else.
var allowedImageMimes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

func sniffMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	if mediaType == "" {
		return "", fmt.Errorf("mime type missing")
	}
	return strings.ToLower(mediaType), nil
}

func extensionFor(mimeType string) (string, bool) {
	ext, ok := allowedImageMimes[mimeType]
	return ext, ok
}

func allowedMimeDescription() string {
	return "PNG, JPEG, WebP, or GIF images"
}
