package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/logger"
)

const (
	contentType     = "application/json"
	requestIDHeader = "X-Request-ID"
)

func (c *Client) setHeaders(_ *resty.Client, req *resty.Request) error {
	req.SetHeader("User-Agent", c.UserAgent)
	req.SetHeader("Accept", contentType)
	if req.Header.Get(requestIDHeader) == "" {
		req.SetHeader(requestIDHeader, uuid.NewString())
	}

	c.logger.Debug("make request", logger.Strings(
		"method", req.Method,
		"path", req.URL,
		logger.FieldRequestID, req.Header.Get(requestIDHeader),
	)...)

	return nil
}

func (c *Client) attachCredential(_ *resty.Client, req *resty.Request) error {
	if c.creds == nil {
		return nil
	}
	if token := c.creds.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return nil
}

// handleUnauthorized purges the credential and sends the user to login.
// The failure itself is still reported to the caller by do.
func (c *Client) handleUnauthorized(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}

	c.logger.Warn("authorization failed, purging credential",
		zap.String("path", resp.Request.URL),
	)

	if c.creds != nil {
		c.creds.Clear("authorization failed")
	}
	if c.loginRequired != nil {
		c.loginRequired()
	}

	return nil
}

// do executes req and converts any non-success into an *APIError.
func (c *Client) do(ctx context.Context, req *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsSuccess() {
		return resp, nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Method:     method,
		Path:       path,
		RequestID:  req.Header.Get(requestIDHeader),
		Detail:     parseDetail(resp.Body()),
	}

	fields := logger.Strings(
		"method", method,
		"path", path,
		logger.FieldRequestID, apiErr.RequestID,
		"detail", apiErr.Detail,
	)
	c.logger.Warn("bad status", append(fields, zap.Int("status", apiErr.StatusCode))...)

	return resp, apiErr
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	resp, err := c.do(ctx, c.rest.R(), http.MethodGet, path)
	if err != nil {
		return err
	}
	return decode(resp, target)
}

func (c *Client) postJSON(ctx context.Context, path string, body, target any) error {
	req := c.rest.R().
		SetHeader("Content-Type", contentType).
		SetBody(body)

	resp, err := c.do(ctx, req, http.MethodPost, path)
	if err != nil {
		return err
	}
	return decode(resp, target)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, c.rest.R(), http.MethodDelete, path)
	return err
}

func decode(resp *resty.Response, target any) error {
	if target == nil {
		return nil
	}

	body := resp.Body()
	if len(body) == 0 {
		return fmt.Errorf("%s %s: empty response body", resp.Request.Method, resp.Request.URL)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s response: %w", resp.Request.URL, err)
	}

	return nil
}
