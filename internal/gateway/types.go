package gateway

import (
	"errors"
	"fmt"
	"math"
)

const (
	AdvicePath   = "/waste-management-advice"
	ClassifyPath = "/classify-waste-image"

	// ImageField is the multipart field carrying the uploaded image.
	ImageField = "image"
)

var (
	// ErrMissingField means the endpoint answered 2xx but without the expected field.
	ErrMissingField = errors.New("response missing expected field")
	ErrEmptyImage   = errors.New("image is empty")
)

type AdviceRequest struct {
	UserInput string `json:"userInput"`
}

type AdviceResponse struct {
	Response *string `json:"response,omitempty"`
}

type Classification struct {
	PredictedClass string  `json:"predicted_class"`
	IsRecyclable   bool    `json:"is_recyclable"`
	Confidence     float64 `json:"confidence"`
}

// Percent is the confidence rounded to a whole percent.
func (c Classification) Percent() int {
	return int(math.Round(c.Confidence * 100))
}

type ClassifyResponse struct {
	Classification *Classification `json:"classification"`
}

// Image is a single upload for the classifier.
type Image struct {
	Name      string
	MediaType string
	Data      []byte
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Endpoint, e.StatusCode, e.Body)
}
