package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hupe1980/ragstream/core"
	"github.com/hupe1980/ragstream/stream"
)

// SearchService provides query and conversation operations.
type SearchService struct {
	client *Client
}

// newSearchService creates a new search service.
func newSearchService(client *Client) *SearchService {
	return &SearchService{client: client}
}

// Stream submits a question and returns its decoded answer stream. A failed
// request is delivered on the error channel; network failures wrap
// stream.ErrTransport.
func (s *SearchService) Stream(ctx context.Context, query, sessionID string) (<-chan core.Event, <-chan error) {
	req := QueryRequest{Query: strings.TrimSpace(query), SessionID: sessionID}

	resp, err := s.client.http.requestStream(ctx, http.MethodPost, "/api/search/stream", req)
	if err != nil {
		if _, ok := AsError(err); !ok {
			err = fmt.Errorf("%w: %w", stream.ErrTransport, err)
		}
		events := make(chan core.Event)
		errs := make(chan error, 1)
		errs <- err
		close(events)
		close(errs)
		return events, errs
	}

	return s.client.config.decoder.Decode(ctx, resp.Body)
}

// Query runs a non-streaming search.
func (s *SearchService) Query(ctx context.Context, query, sessionID string) (*QueryResponse, error) {
	var resp QueryResponse
	req := QueryRequest{Query: strings.TrimSpace(query), SessionID: sessionID}
	if err := s.client.http.request(ctx, http.MethodPost, "/api/search/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Enhanced runs a non-streaming search whose answer is organised into layout
// sections (images, tables, charts, summary).
func (s *SearchService) Enhanced(ctx context.Context, query, sessionID string) (*EnhancedResponse, error) {
	var resp EnhancedResponse
	req := QueryRequest{Query: strings.TrimSpace(query), SessionID: sessionID}
	if err := s.client.http.request(ctx, http.MethodPost, "/api/search/enhanced", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateSession asks the server for a new conversation session id.
func (s *SearchService) CreateSession(ctx context.Context) (string, error) {
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := s.client.http.request(ctx, http.MethodPost, "/api/search/session", nil, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

// History returns the server-side conversation history of a session.
func (s *SearchService) History(ctx context.Context, sessionID string) ([]HistoryEntry, error) {
	var resp struct {
		History []HistoryEntry `json:"history"`
	}
	path := "/api/search/history/" + url.PathEscape(sessionID)
	if err := s.client.http.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// ClearHistory deletes the server-side conversation history of a session.
func (s *SearchService) ClearHistory(ctx context.Context, sessionID string) error {
	path := "/api/search/clear/" + url.PathEscape(sessionID)
	return s.client.http.request(ctx, http.MethodDelete, path, nil, nil)
}

// Suggestions returns query suggestions for a partial query.
func (s *SearchService) Suggestions(ctx context.Context, query string) ([]string, error) {
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	req := QueryRequest{Query: query}
	if err := s.client.http.request(ctx, http.MethodPost, "/api/search/suggestions", req, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// Health checks the search service.
func (s *SearchService) Health(ctx context.Context) (*HealthStatus, error) {
	var resp HealthStatus
	if err := s.client.http.request(ctx, http.MethodGet, "/api/search/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
