package client

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

	"github.com/hupe1980/ragstream/logging"
)

// httpClient handles HTTP communication with the backend.
type httpClient struct {
	client       *http.Client
	streamClient *http.Client
	baseURL      string
	userAgent    string
	maxRetries   int
	backoff      time.Duration
	logger       logging.Logger
}

// newHTTPClient creates a new HTTP client. Streams use a copy of the
// configured client without its overall timeout, since an answer stream may
// legitimately outlive any request deadline.
func newHTTPClient(cfg *clientConfig) *httpClient {
	sc := *cfg.httpClient
	sc.Timeout = 0

	return &httpClient{
		client:       cfg.httpClient,
		streamClient: &sc,
		baseURL:      strings.TrimRight(cfg.baseURL, "/"),
		userAgent:    cfg.userAgent,
		maxRetries:   cfg.maxRetries,
		backoff:      time.Second,
		logger:       cfg.logger,
	}
}

// envelope is the common response wrapper of the backend.
type envelope struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// request makes an HTTP request to the API with retry support.
func (h *httpClient) request(ctx context.Context, method, path string, body any, result any) error {
	var bodyData []byte
	if body != nil {
		var err error
		bodyData, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s, ...
			backoff := time.Duration(1<<uint(attempt-1)) * h.backoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := h.doRequest(ctx, method, path, bodyData, result)
		if err == nil {
			return nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return err
		}

		if apiErr, ok := AsError(err); ok && !apiErr.Retryable() {
			return err
		}
		h.logger.Debug("retrying request", "method", method, "path", path, "attempt", attempt+1, "error", err)
	}

	return lastErr
}

// doRequest performs a single HTTP request.
func (h *httpClient) doRequest(ctx context.Context, method, path string, bodyData []byte, result any) error {
	var bodyReader io.Reader
	if bodyData != nil {
		bodyReader = bytes.NewReader(bodyData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	h.setHeaders(req)
	if bodyData != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	return h.handleResponse(resp, result)
}

// requestStream makes a streaming HTTP request. The caller owns the returned
// response body.
func (h *httpClient) requestStream(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	h.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := h.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	// Validation failures come back as a JSON envelope, not a stream.
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, h.handleErrorResponse(resp)
	}

	return resp, nil
}

// uploadFile uploads a file using multipart form data with streaming.
// This avoids loading the entire file into memory.
func (h *httpClient) uploadFile(ctx context.Context, path string, file io.Reader, filename string, fields map[string]string, result any) error {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	errCh := make(chan error, 1)
	go func() {
		err := func() error {
			part, err := writer.CreateFormFile("file", filename)
			if err != nil {
				return fmt.Errorf("create form file: %w", err)
			}
			if _, err := io.Copy(part, file); err != nil {
				return fmt.Errorf("copy file: %w", err)
			}
			for key, value := range fields {
				if err := writer.WriteField(key, value); err != nil {
					return fmt.Errorf("write field %s: %w", key, err)
				}
			}
			if err := writer.Close(); err != nil {
				return fmt.Errorf("close writer: %w", err)
			}
			return nil
		}()
		pw.CloseWithError(err)
		errCh <- err
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, pr)
	if err != nil {
		pr.CloseWithError(err)
		<-errCh
		return fmt.Errorf("create request: %w", err)
	}

	h.setHeaders(req)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := h.client.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		<-errCh
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respErr := h.handleResponse(resp, result)

	// The server may answer before consuming the whole body.
	pr.CloseWithError(io.ErrClosedPipe)
	if writeErr := <-errCh; writeErr != nil && respErr == nil && resp.StatusCode == http.StatusOK {
		return writeErr
	}

	return respErr
}

// setHeaders sets common headers for API requests.
func (h *httpClient) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", h.userAgent)
}

// handleResponse checks the HTTP status and the success envelope, then
// decodes the body into result.
func (h *httpClient) handleResponse(resp *http.Response, result any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return h.parseError(body, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Success != nil && !*env.Success {
		return &Error{HTTPStatus: resp.StatusCode, Message: env.Message}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// handleErrorResponse handles an error response.
func (h *httpClient) handleErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error response: %w", err)
	}
	return h.parseError(body, resp.StatusCode)
}

// parseError parses an error response body.
func (h *httpClient) parseError(body []byte, httpStatus int) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &Error{HTTPStatus: httpStatus, Message: env.Message}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(httpStatus)
	}
	return &Error{HTTPStatus: httpStatus, Message: msg}
}
