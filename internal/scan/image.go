package scan

import (
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrImageTooLarge    = errors.New("image exceeds size limit")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// allowedTypes are the image formats the classifier accepts.
var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// DetectImage sniffs data and returns its media type, rejecting anything that
// is not a common image format or is larger than maxBytes.
func DetectImage(data []byte, maxBytes int64) (string, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}

	mt := mimetype.Detect(data)
	for _, allowed := range allowedTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
}

// extension maps a media type to a filename suffix for uploads.
func extension(mediaType string) string {
	if mt := mimetype.Lookup(mediaType); mt != nil {
		return mt.Extension()
	}
	return ""
}
