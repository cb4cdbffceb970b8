package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/refiner"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Interface compliance checks.
var (
	_ refiner.Refiner       = (*Client)(nil)
	_ refiner.HealthChecker = (*Client)(nil)
)

// Client talks to the project refiner service.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the service base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request time budget. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a new [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Refine posts the project description and returns the generated roadmap.
func (c *Client) Refine(ctx context.Context, req refiner.Request) (refiner.Result, error) {
	if err := req.Validate(); err != nil {
		return refiner.Result{}, fmt.Errorf("api: %w", err)
	}
	body, err := json.Marshal(apiRequest{
		ProjectDescription: req.ProjectDescription,
		Detailed:           req.Detailed,
	})
	if err != nil {
		return refiner.Result{}, fmt.Errorf("api: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	data, err := c.do(ctx, http.MethodPost, refinePath, body)
	if err != nil {
		return refiner.Result{}, err
	}

	var resp apiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return refiner.Result{}, fmt.Errorf("api: decode response: %w: %w", refiner.ErrTransport, err)
	}
	if resp.Error != nil {
		msg := *resp.Error
		if msg == "" {
			msg = "Unknown server error"
		}
		return refiner.Result{}, fmt.Errorf("api: %w", &refiner.ApplicationError{Message: msg})
	}
	return refiner.Result{
		Roadmap:  resp.Roadmap,
		Metadata: convertMetadata(resp.Metadata),
	}, nil
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (refiner.Health, error) {
	data, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return refiner.Health{}, err
	}
	var h apiHealth
	if err := json.Unmarshal(data, &h); err != nil {
		return refiner.Health{}, fmt.Errorf("api: decode health: %w: %w", refiner.ErrTransport, err)
	}
	return refiner.Health{Status: h.Status, Timestamp: h.Timestamp, APIStatus: h.APIStatus}, nil
}

// do sends a request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	requestID := uuid.NewString()
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	klog.V(3).Infof("api: %s %s request_id=%s", method, path, requestID)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}
	klog.V(3).Infof("api: %s %s request_id=%s status=%d elapsed=%s", method, path, requestID, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("api: %w", &refiner.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       sanitizeBody(data),
		})
	}
	return data, nil
}

// classify maps a transport failure to ErrTimeout, ErrTransport or, for
// caller cancellation, leaves it as context.Canceled.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("api: %w", err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("api: %w: %w", refiner.ErrTimeout, err)
	}
	return fmt.Errorf("api: %w: %w", refiner.ErrTransport, err)
}

func convertMetadata(m *apiMetadata) *refiner.Metadata {
	if m == nil {
		return nil
	}
	md := refiner.Metadata{ProcessingType: refiner.DefaultProcessingType}
	if m.ProcessingType != nil {
		md.ProcessingType = *m.ProcessingType
	}
	if m.TotalTokens != nil {
		md.TotalTokens = *m.TotalTokens
	}
	if m.ProcessingTime != nil {
		md.ProcessingTime = *m.ProcessingTime
	}
	if m.Timestamp != nil {
		md.Timestamp = *m.Timestamp
	}
	return &md
}
