package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Advise sends the raw user text to the advice endpoint and returns its reply.
// A 2xx answer without a non-empty response field yields ErrMissingField.
func (c *Client) Advise(ctx context.Context, userInput string) (string, error) {
	jsonBody, err := json.Marshal(AdviceRequest{UserInput: userInput})
	if err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, c.adviceTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AdvicePath, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, "advice")
	if err != nil {
		return "", err
	}

	var adviceResp AdviceResponse
	if err := json.Unmarshal(body, &adviceResp); err != nil {
		return "", fmt.Errorf("advice decode: %w", err)
	}

	if adviceResp.Response == nil || *adviceResp.Response == "" {
		return "", ErrMissingField
	}

	return *adviceResp.Response, nil
}
