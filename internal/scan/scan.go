// Package scan validates waste photos, sends them to the classifier and renders the verdict.
package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/logger"
)

const (
	ErrorMessage       = "Failed to classify image. Please try again."
	TooLargeMessage    = "That image is too large. Please upload a PNG or JPG up to %s."
	UnsupportedMessage = "Unsupported file. Please upload a PNG or JPG image."
	LoadingMessage     = "Analyzing waste image..."
)

type Classifier interface {
	Classify(ctx context.Context, img gateway.Image) (*gateway.Classification, error)
}

// State is what the scan screen shows. A new scan starts from an empty State,
// so a previous result never survives a failed submission.
type State struct {
	Result  *gateway.Classification
	Error   string
	Loading bool
}

type Scanner struct {
	classifier Classifier
	maxBytes   int64
}

func New(classifier Classifier, maxBytes int64) *Scanner {
	return &Scanner{
		classifier: classifier,
		maxBytes:   maxBytes,
	}
}

// Scan classifies one image. The returned State is always complete: either a
// result or a user-facing error message. The error is for logging and alerting.
func (s *Scanner) Scan(ctx context.Context, img gateway.Image) (State, error) {
	mediaType, err := DetectImage(img.Data, s.maxBytes)
	if err != nil {
		return State{Error: s.ValidationMessage(err)}, err
	}

	img.MediaType = mediaType
	if img.Name == "" {
		img.Name = "waste" + extension(mediaType)
	}

	result, err := s.classifier.Classify(ctx, img)
	if err != nil {
		logger.Error("classification failed", "error", err, "size", len(img.Data), "type", mediaType)
		return State{Error: ErrorMessage}, err
	}

	logger.Info("image classified", "class", result.PredictedClass, "recyclable", result.IsRecyclable, "confidence", result.Percent())

	return State{Result: result}, nil
}

// ScanSource captures from src and classifies the image. src is closed on every path.
func (s *Scanner) ScanSource(ctx context.Context, src Source) (State, error) {
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn("capture source close failed", "error", err)
		}
	}()

	img, err := src.Capture(ctx)
	if err != nil {
		logger.Error("capture failed", "error", err)
		return State{Error: ErrorMessage}, err
	}

	return s.Scan(ctx, img)
}

func (s *Scanner) MaxBytes() int64 {
	return s.maxBytes
}

// ValidationMessage is the user-facing text for an image rejected before upload.
func (s *Scanner) ValidationMessage(err error) string {
	if errors.Is(err, ErrImageTooLarge) {
		return fmt.Sprintf(TooLargeMessage, formatBytes(s.maxBytes))
	}
	return UnsupportedMessage
}

// IsValidation reports whether err was raised before any network call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrUnsupportedImage)
}

// Verdict is the headline for a classification.
func Verdict(c gateway.Classification) string {
	if c.IsRecyclable {
		return "♻️ Recyclable"
	}
	return "🚫 Non-recyclable"
}

// Lines renders a classification the way the scan screen shows it.
func Lines(c gateway.Classification) []string {
	return []string{
		Verdict(c),
		"Detected Material: " + c.PredictedClass,
		fmt.Sprintf("Confidence: %d%%", c.Percent()),
	}
}

// Render joins Lines, or returns the error or loading text for st.
func Render(st State) string {
	switch {
	case st.Loading:
		return LoadingMessage
	case st.Error != "":
		return st.Error
	case st.Result != nil:
		return strings.Join(Lines(*st.Result), "\n")
	default:
		return ""
	}
}

func formatBytes(n int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)

	switch {
	case n >= MB && n%MB == 0:
		return fmt.Sprintf("%dMB", n/MB)
	case n >= MB:
		return fmt.Sprintf("%.1fMB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%dKB", n/KB)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
