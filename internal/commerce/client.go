// internal/commerce/client.go
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookshop-storefront/internal/config"
)

// Client is an HTTP client for the remote commerce platform. All catalog,
// address, order, and identity data lives behind that platform; this client
// is the only component that talks to it.
type Client struct {
	baseURL    string
	namespace  string
	storeID    int
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a commerce platform client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:   cfg.Commerce.BaseURL,
		namespace: cfg.Commerce.Namespace,
		storeID:   cfg.Commerce.StoreID,
		httpClient: &http.Client{
			Timeout: cfg.Commerce.RequestTimeout,
		},
		logger: logger,
	}
}

// APIError represents a non-2xx response from the commerce platform
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("commerce API error (status %d): %s", e.StatusCode, e.Message)
}

// envelope is the response wrapper the platform uses for every endpoint
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token,omitempty"`
	Message string          `json:"message,omitempty"`
}

// do executes a request against the platform and decodes the data envelope
// into dest. The namespace header is always attached; the token header only
// when a session token is supplied.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, dest interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("namespace", c.namespace)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("token", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).WithError(err).Error("Commerce API request failed")
		return fmt.Errorf("commerce API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			if resp.StatusCode >= 400 {
				return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if resp.StatusCode >= 400 {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("Commerce API returned an error")
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if dest != nil {
		switch d := dest.(type) {
		case *envelope:
			*d = env
		default:
			if len(env.Data) == 0 {
				return nil
			}
			if err := json.Unmarshal(env.Data, dest); err != nil {
				return fmt.Errorf("failed to decode response data: %w", err)
			}
		}
	}

	return nil
}
