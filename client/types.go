package client

import (
	"encoding/json"

	"github.com/hupe1980/ragstream/core"
)

// QueryRequest is the body of a search request.
type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the result of a non-streaming search.
type QueryResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message,omitempty"`
	Answer    json.RawMessage  `json:"answer,omitempty"`
	Sources   []map[string]any `json:"sources,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
}

// UnifiedAnswer decodes the answer as a unified answer. Plain-text answers
// are returned as an answer without multimedia.
func (r *QueryResponse) UnifiedAnswer() (core.UnifiedAnswer, error) {
	if len(r.Answer) == 0 || string(r.Answer) == "null" {
		return core.UnifiedAnswer{}, nil
	}

	var text string
	if err := json.Unmarshal(r.Answer, &text); err == nil {
		return core.UnifiedAnswer{TextContent: text}, nil
	}

	var ans core.UnifiedAnswer
	if err := json.Unmarshal(r.Answer, &ans); err != nil {
		return core.UnifiedAnswer{}, err
	}
	return ans, nil
}

// EnhancedResponse is the result of an enhanced search.
type EnhancedResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message,omitempty"`
	Answer    StructuredAnswer `json:"answer"`
	Layout    Layout           `json:"layout"`
	Sources   []map[string]any `json:"sources,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
}

// Layout describes how an enhanced answer should be arranged.
type Layout struct {
	Sections         []LayoutSection `json:"sections"`
	ContentFlow      string          `json:"content_flow"`
	InteractionLevel string          `json:"interaction_level,omitempty"`
}

// LayoutSection is one block of the layout, in display order.
type LayoutSection struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Count       int    `json:"count"`
	Interactive bool   `json:"interactive"`
}

// StructuredAnswer is the answer of an enhanced search, keyed by section type.
type StructuredAnswer struct {
	Sections        map[string]AnswerSection `json:"sections"`
	Summary         string                   `json:"summary,omitempty"`
	KeyPoints       []string                 `json:"key_points,omitempty"`
	Recommendations []string                 `json:"recommendations,omitempty"`
}

// AnswerSection is the content of one layout section. Media sections carry
// Contents and Analysis, the text summary carries Content.
type AnswerSection struct {
	Title    string           `json:"title"`
	Content  string           `json:"content,omitempty"`
	Contents []map[string]any `json:"contents,omitempty"`
	Analysis string           `json:"analysis,omitempty"`
}

// Ordered returns the answer sections in layout order, skipping sections the
// answer has no content for.
func (r *EnhancedResponse) Ordered() []AnswerSection {
	out := make([]AnswerSection, 0, len(r.Layout.Sections))
	for _, sec := range r.Layout.Sections {
		if a, ok := r.Answer.Sections[sec.Type]; ok {
			out = append(out, a)
		}
	}
	return out
}

// HistoryEntry is one message of the server-side conversation history.
type HistoryEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// HealthStatus is the response of the health endpoint.
type HealthStatus struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
	Message string `json:"message,omitempty"`
}

// Healthy reports whether the service declared itself healthy.
func (h *HealthStatus) Healthy() bool {
	return h.Success && h.Status == "healthy"
}

// FileInfo describes an uploaded document.
type FileInfo struct {
	FileID             string `json:"file_id"`
	OriginalFilename   string `json:"original_filename"`
	FileSize           int64  `json:"file_size"`
	UploadTime         string `json:"upload_time,omitempty"`
	Status             string `json:"status"`
	ProcessingProgress int    `json:"processing_progress"`
	FilePath           string `json:"file_path,omitempty"`
}

// ProcessingStatus reports the server-side processing of a document.
type ProcessingStatus struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

// Done reports whether processing finished, successfully or not.
func (s *ProcessingStatus) Done() bool {
	switch s.Status {
	case "completed", "failed", "error", "not_found":
		return true
	}
	return false
}

// FileDetails combines file metadata, processing state and statistics.
type FileDetails struct {
	FileInfo       FileInfo         `json:"file_info"`
	ProcessingInfo ProcessingStatus `json:"processing_info"`
	Statistics     map[string]any   `json:"statistics,omitempty"`
}

// UploadResponse is the response of a file upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	FileID   string `json:"file_id,omitempty"`
	Filename string `json:"filename,omitempty"`
}
