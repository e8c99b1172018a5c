// Package support accepts feedback and composting proof. Submissions are
// acknowledged with a reference and logged, never stored.
package support

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/logger"
	"github.com/bowerhall/regen/internal/scan"
)

const (
	FeedbackMessage = "Feedback submitted!"
	ProofMessage    = "Proof submitted!"
)

var ErrEmptyFeedback = errors.New("feedback is empty")

type Feedback struct {
	Ref         string
	Text        string
	SubmittedAt time.Time
}

type Proof struct {
	Ref         string
	MediaType   string
	Size        int
	SubmittedAt time.Time
}

func SubmitFeedback(text string) (Feedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Feedback{}, ErrEmptyFeedback
	}

	fb := Feedback{
		Ref:         newRef(),
		Text:        text,
		SubmittedAt: time.Now(),
	}

	logger.Info("feedback submitted", "ref", fb.Ref, "chars", len(text))
	return fb, nil
}

// SubmitProof checks that img is a photo within maxBytes and acknowledges it.
func SubmitProof(img gateway.Image, maxBytes int64) (Proof, error) {
	mediaType, err := scan.DetectImage(img.Data, maxBytes)
	if err != nil {
		return Proof{}, err
	}

	p := Proof{
		Ref:         newRef(),
		MediaType:   mediaType,
		Size:        len(img.Data),
		SubmittedAt: time.Now(),
	}

	logger.Info("composting proof submitted", "ref", p.Ref, "type", mediaType, "size", p.Size)
	return p, nil
}

func newRef() string {
	return uuid.New().String()[:8]
}
