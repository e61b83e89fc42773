// internal/gateway/client.go
// Typed client for the debate backend: /status, /query and /upload.
// Every failure leaves this package as a *TransportError or *BackendError.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"debatecore/internal/models"
)

const (
	opStatus = "status"
	opQuery  = "query"
	opUpload = "upload"

	// maxBodySize caps how much of a response body is read
	maxBodySize = 16 << 20

	headerRequestID = "X-Request-ID"
)

// Client talks to the backend at a fixed base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default tuned http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the overall per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = newHTTPClient(d)
	}
}

// WithLogger sets the logger used for request outcomes
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.Named("gateway")
		}
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClient(DefaultTimeout),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchStatus returns the backend's current index status
func (c *Client) FetchStatus(ctx context.Context) (models.BackendStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return models.BackendStatus{}, c.requestError(opStatus, err)
	}

	var wire models.StatusResponse
	if err := c.do(req, opStatus, &wire); err != nil {
		return models.BackendStatus{}, err
	}
	return wire.ToStatus(), nil
}

// SubmitQuery runs a debate for text. A 200 response carrying an
// "error" field is returned as *BackendError.
func (c *Client) SubmitQuery(ctx context.Context, text string) (models.QueryResult, error) {
	body, err := json.Marshal(models.QueryRequest{Query: text})
	if err != nil {
		return models.QueryResult{}, c.requestError(opQuery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return models.QueryResult{}, c.requestError(opQuery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var wire models.QueryResponse
	if err := c.do(req, opQuery, &wire); err != nil {
		return models.QueryResult{}, err
	}

	if wire.Error != "" {
		c.logger.Info("backend reported query error", zap.String("error", wire.Error))
		return models.QueryResult{}, &BackendError{Message: wire.Error}
	}
	return wire.ToResult(), nil
}

// UploadFile sends r as the multipart "file" field under filename
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (models.UploadReceipt, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return models.UploadReceipt{}, c.requestError(opUpload, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.UploadReceipt{}, c.requestError(opUpload, err)
	}
	if err := mw.Close(); err != nil {
		return models.UploadReceipt{}, c.requestError(opUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return models.UploadReceipt{}, c.requestError(opUpload, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var wire models.UploadResponse
	if err := c.do(req, opUpload, &wire); err != nil {
		return models.UploadReceipt{}, err
	}
	return models.UploadReceipt{Filename: filename, Message: wire.Message}, nil
}

// do executes req and decodes a 2xx JSON body into out
func (c *Client) do(req *http.Request, op string, out any) error {
	id := uuid.NewString()
	req.Header.Set(headerRequestID, id)
	req.Header.Set("Accept", "application/json")

	log := c.logger.With(zap.String("op", op), zap.String("request_id", id))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		msg := describeTransport(err)
		log.Warn("request failed", zap.String("reason", msg), zap.Error(err))
		return &TransportError{Op: op, Message: msg, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn("reading response failed", zap.Error(err))
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: "response interrupted", Err: err}
	}

	log.Debug("request complete",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if !isSuccess(resp.StatusCode) {
		cause := statusError(resp.StatusCode)
		msg := cause.Error()
		var detail models.ErrorDetail
		if json.Unmarshal(data, &detail) == nil && detail.Detail != "" {
			msg = fmt.Sprintf("%s: %s", msg, detail.Detail)
		}
		log.Warn("backend rejected request", zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: msg, Err: cause}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		if op == opUpload {
			return nil
		}
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: "empty response body", Err: ErrMalformedBody}
	}

	if err := json.Unmarshal(data, out); err != nil {
		if op == opUpload {
			// the status code alone decides an upload
			return nil
		}
		log.Warn("malformed response body", zap.Error(err))
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			Err:        fmt.Errorf("%w: %v", ErrMalformedBody, err),
		}
	}
	return nil
}

// requestError wraps a failure that happened before anything was sent
func (c *Client) requestError(op string, err error) error {
	return &TransportError{Op: op, Message: "could not build request", Err: err}
}
