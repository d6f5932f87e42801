package domain

import "io"

// File status constants for the ingestion pipeline
const (
	FileStatusUploading  = "uploading"
	FileStatusUploaded   = "uploaded"
	FileStatusProcessing = "processing"
	FileStatusReady      = "ready"
	FileStatusFailed     = "failed"
)

// UploadedFile is the record kept for a file that completed ingestion.
// ID is the backend-issued file id.
type UploadedFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FileUpload is a locally-selected file handed to the ingestion pipeline
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// FileResult is the per-file outcome of an ingestion batch
type FileResult struct {
	Name   string `json:"name"`
	FileID string `json:"file_id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
