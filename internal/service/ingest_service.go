package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Karim-Bennia/minirag-console/internal/config"
	"github.com/Karim-Bennia/minirag-console/internal/domain"
	"github.com/Karim-Bennia/minirag-console/internal/minirag"
	"github.com/Karim-Bennia/minirag-console/internal/repository"
)

// IngestService moves locally-selected files through the backend's
// upload-then-process sequence, one file at a time, and records the ones
// that become queryable.
type IngestService struct {
	cfg     *config.Config
	backend *minirag.Client
	state   *repository.StateRepository
	logger  *zap.Logger

	mu        sync.Mutex
	busy      bool
	lastError string
}

// NewIngestService creates a new ingest service. backend may be nil when no
// base URL is configured; batches are then rejected per-call.
func NewIngestService(
	cfg *config.Config,
	backend *minirag.Client,
	state *repository.StateRepository,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		cfg:     cfg,
		backend: backend,
		state:   state,
		logger:  logger,
	}
}

// UploadBatch ingests a batch of files strictly sequentially: each file's
// upload and processing completes (or fails) before the next file starts.
// A file failure is terminal for that file only; the batch continues. Files
// that reach ready are recorded, and the last ready file becomes the active
// query target. The whole batch is rejected before any network call when no
// project is selected or the backend is unconfigured.
func (s *IngestService) UploadBatch(ctx context.Context, uploads []domain.FileUpload) ([]domain.FileResult, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, domain.ErrBusy
	}
	selection := s.state.Selection()
	if selection.ProjectID == "" {
		s.mu.Unlock()
		return nil, domain.ErrNoProject
	}
	if s.backend == nil {
		s.mu.Unlock()
		return nil, domain.ErrNotConfigured
	}
	s.busy = true
	s.lastError = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	results := make([]domain.FileResult, 0, len(uploads))
	for _, upload := range uploads {
		results = append(results, s.ingestOne(ctx, selection.ProjectID, upload))
	}
	return results, nil
}

// ingestOne runs one file through uploading → uploaded → processing → ready,
// or to failed from either network step.
func (s *IngestService) ingestOne(ctx context.Context, projectID string, upload domain.FileUpload) domain.FileResult {
	result := domain.FileResult{
		Name:   upload.Name,
		Status: domain.FileStatusUploading,
	}

	fileID, err := s.backend.Upload(ctx, projectID, upload.Name, upload.Content)
	if err != nil {
		s.logger.Warn("upload failed",
			zap.String("project_id", projectID),
			zap.String("filename", upload.Name),
			zap.Error(err),
		)
		result.Status = domain.FileStatusFailed
		result.Error = fmt.Sprintf("Failed to upload %s", upload.Name)
		s.setLastError(result.Error)
		return result
	}
	result.FileID = fileID
	result.Status = domain.FileStatusProcessing

	err = s.backend.Process(ctx, projectID, fileID, s.cfg.Ingest.ChunkSize, s.cfg.Ingest.OverlapSize)
	if err != nil {
		// The upload is not rolled back; the file exists backend-side but is
		// not recorded as queryable here
		s.logger.Warn("processing failed",
			zap.String("project_id", projectID),
			zap.String("file_id", fileID),
			zap.Error(err),
		)
		result.Status = domain.FileStatusFailed
		result.Error = fmt.Sprintf("Failed to process %s", upload.Name)
		s.setLastError(result.Error)
		return result
	}

	result.Status = domain.FileStatusReady
	s.state.AppendFile(&domain.UploadedFile{
		ID:   fileID,
		Name: upload.Name,
		Size: upload.Size,
	})
	s.state.SetActiveFile(fileID)

	s.logger.Info("file ready",
		zap.String("project_id", projectID),
		zap.String("file_id", fileID),
		zap.String("filename", upload.Name),
	)
	return result
}

// Files returns the recorded uploaded files in insertion order
func (s *IngestService) Files() []*domain.UploadedFile {
	return s.state.Files()
}

// ClearFiles empties the uploaded-file records. Backend-side files are not
// touched; this is local bookkeeping only.
func (s *IngestService) ClearFiles() {
	s.state.ClearFiles()
}

// Busy reports whether a batch is in flight
func (s *IngestService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LastError returns the most recent per-file failure detail, cleared when a
// new batch is accepted
func (s *IngestService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *IngestService) setLastError(detail string) {
	s.mu.Lock()
	s.lastError = detail
	s.mu.Unlock()
}
