package client

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/hupe1980/ragstream/upload"
)

// FileService provides document management operations.
type FileService struct {
	client *Client
}

// newFileService creates a new file service.
func newFileService(client *Client) *FileService {
	return &FileService{client: client}
}

// Upload uploads a document. Uploads are not retried since the body is
// streamed.
func (s *FileService) Upload(ctx context.Context, file io.Reader, filename string) (*UploadResponse, error) {
	var resp UploadResponse
	if err := s.client.http.uploadFile(ctx, "/api/file/upload", file, filename, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit implements upload.Submitter. Server-side refusals are reported as
// an unsuccessful result carrying the server message.
func (s *FileService) Submit(ctx context.Context, f upload.File) (upload.Result, error) {
	rc, err := f.Open()
	if err != nil {
		return upload.Result{}, err
	}
	defer rc.Close()

	resp, err := s.Upload(ctx, rc, f.Name)
	if err != nil {
		if apiErr, ok := AsError(err); ok {
			return upload.Result{Success: false, Message: apiErr.Message}, nil
		}
		return upload.Result{}, err
	}
	return upload.Result{Success: resp.Success, Message: resp.Message, FileID: resp.FileID}, nil
}

// List returns all uploaded documents, newest first.
func (s *FileService) List(ctx context.Context) ([]FileInfo, error) {
	var resp struct {
		Files []FileInfo `json:"files"`
	}
	if err := s.client.http.request(ctx, http.MethodGet, "/api/file/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// Status returns the processing status of a document.
func (s *FileService) Status(ctx context.Context, fileID string) (*ProcessingStatus, error) {
	var resp struct {
		Status ProcessingStatus `json:"status"`
	}
	path := "/api/file/status/" + url.PathEscape(fileID)
	if err := s.client.http.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Status, nil
}

// Info returns the details of a document.
func (s *FileService) Info(ctx context.Context, fileID string) (*FileDetails, error) {
	var resp FileDetails
	path := "/api/file/info/" + url.PathEscape(fileID)
	if err := s.client.http.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Rename changes the display name of a document.
func (s *FileService) Rename(ctx context.Context, fileID, newFilename string) error {
	body := map[string]string{"new_filename": newFilename}
	path := "/api/file/rename/" + url.PathEscape(fileID)
	return s.client.http.request(ctx, http.MethodPut, path, body, nil)
}

// Delete removes a document.
func (s *FileService) Delete(ctx context.Context, fileID string) error {
	path := "/api/file/delete/" + url.PathEscape(fileID)
	return s.client.http.request(ctx, http.MethodDelete, path, nil, nil)
}

var _ upload.Submitter = (*FileService)(nil)
