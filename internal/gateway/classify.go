package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// Classify uploads one image as a multipart form and returns the remote classification.
// The call is bounded by the configured classify timeout.
func (c *Client) Classify(ctx context.Context, img Image) (*Classification, error) {
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	name := img.Name
	if name == "" {
		name = "image"
	}

	mediaType := img.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ImageField, name))
	header.Set("Content-Type", mediaType)

	part, err := form.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, c.classifyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ClassifyPath, &buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, "classify")
	if err != nil {
		return nil, err
	}

	var classifyResp ClassifyResponse
	if err := json.Unmarshal(body, &classifyResp); err != nil {
		return nil, fmt.Errorf("classify decode: %w", err)
	}

	if classifyResp.Classification == nil {
		return nil, ErrMissingField
	}

	result := *classifyResp.Classification
	result.Confidence = clamp(result.Confidence)

	return &result, nil
}

func clamp(confidence float64) float64 {
	switch {
	case confidence < 0 || math.IsNaN(confidence):
		return 0
	case confidence > 1:
		return 1
	default:
		return confidence
	}
}
