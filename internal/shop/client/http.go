package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studyhall/lesson-booking-service/internal/model"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
	"github.com/studyhall/lesson-booking-service/internal/shop"
)

// Client implements shop.Backend over the lesson service's JSON API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.ZapLogger
}

var _ shop.Backend = (*Client)(nil)

func New(baseURL string, timeout time.Duration, log logger.ZapLogger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

func (c *Client) ListCatalog(ctx context.Context) ([]model.Lesson, error) {
	var resp struct {
		Lessons []model.Lesson `json:"lessons"`
		Total   int            `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/lessons", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lessons, nil
}

func (c *Client) SubmitOrder(ctx context.Context, order *shop.OrderRequest) (*shop.OrderReceipt, error) {
	var resp struct {
		ID    string  `json:"id"`
		Total float64 `json:"total"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", order, &resp); err != nil {
		return nil, err
	}
	return &shop.OrderReceipt{OrderID: resp.ID, Total: resp.Total}, nil
}

func (c *Client) UpdateCapacity(ctx context.Context, lessonID int64, spaces int) error {
	body := map[string]interface{}{
		"spaces": spaces,
		"reason": "capacity sync after order",
	}
	path := fmt.Sprintf("/lessons/%d/spaces", lessonID)
	return c.do(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
