package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the order-creation endpoint of the dashboard backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type createOrderResponse struct {
	OrderID string `json:"order_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Create POSTs the payload and returns the generated order identifier.
// Transport failures come back as *UnreachableError, non-2xx answers as
// *RejectedError. Exactly one attempt is made; retries are the caller's
// decision (the dialogue engine never retries automatically).
func (c *Client) Create(ctx context.Context, payload Payload) (string, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/api/orders", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UnreachableError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := "Unknown error"
		var errResp errorResponse
		if json.Unmarshal(bodyBytes, &errResp) == nil && errResp.Detail != "" {
			detail = errResp.Detail
		}
		return "", &RejectedError{StatusCode: resp.StatusCode, Detail: detail}
	}

	var result createOrderResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return "", &RejectedError{StatusCode: resp.StatusCode, Detail: "malformed backend response"}
	}

	return result.OrderID, nil
}
