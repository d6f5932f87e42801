package repository

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Karim-Bennia/minirag-console/internal/domain"
)

// Durable entry keys
const (
	keyProjectID     = "project_id"
	keyActiveFileID  = "active_file_id"
	keyUploadedFiles = "uploaded_files"
)

// StateRepository holds the session selection and the uploaded-file list.
// The in-memory copy is authoritative for the running session; the sqlite
// rows exist so a restart reconstructs the last saved state. Writes are
// best-effort: a persistence failure is logged and the in-memory mutation
// stands.
type StateRepository struct {
	db     *DB
	logger *zap.Logger

	mu        sync.Mutex
	selection domain.Selection
	files     []*domain.UploadedFile
}

// NewStateRepository creates a state repository and loads the previously
// saved session state. Unreadable or unparseable entries are discarded and
// replaced by their defaults.
func NewStateRepository(db *DB, logger *zap.Logger) *StateRepository {
	r := &StateRepository{db: db, logger: logger}
	r.selection.ProjectID = r.loadString(keyProjectID)
	r.selection.ActiveFileID = r.loadString(keyActiveFileID)
	r.files = r.loadFiles()
	return r
}

// Selection returns the current selection
func (r *StateRepository) Selection() domain.Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selection
}

// SetProject sets the active project. Switching to a different project
// clears the active file: a file id from another project must never scope a
// query.
func (r *StateRepository) SetProject(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if projectID != r.selection.ProjectID {
		r.selection.ActiveFileID = ""
		r.save(keyActiveFileID, "")
	}
	r.selection.ProjectID = projectID
	r.save(keyProjectID, projectID)
}

// SetActiveFile sets the active file id
func (r *StateRepository) SetActiveFile(fileID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.selection.ActiveFileID = fileID
	r.save(keyActiveFileID, fileID)
}

// Files returns a copy of the uploaded-file list in insertion order
func (r *StateRepository) Files() []*domain.UploadedFile {
	r.mu.Lock()
	defer r.mu.Unlock()

	files := make([]*domain.UploadedFile, len(r.files))
	copy(files, r.files)
	return files
}

// AppendFile appends a record for a file that completed ingestion
func (r *StateRepository) AppendFile(file *domain.UploadedFile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files = append(r.files, file)
	r.saveFiles()
}

// ClearFiles empties the uploaded-file list
func (r *StateRepository) ClearFiles() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files = nil
	if _, err := r.db.Exec(`DELETE FROM session_state WHERE key = ?`, keyUploadedFiles); err != nil {
		r.logger.Warn("failed to clear uploaded files", zap.Error(err))
	}
}

func (r *StateRepository) loadString(key string) string {
	var value string
	err := r.db.QueryRow(`SELECT value FROM session_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return ""
	}
	if err != nil {
		r.logger.Warn("failed to load session state", zap.String("key", key), zap.Error(err))
		return ""
	}
	return value
}

func (r *StateRepository) loadFiles() []*domain.UploadedFile {
	raw := r.loadString(keyUploadedFiles)
	if raw == "" {
		return nil
	}

	var files []*domain.UploadedFile
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		// A corrupt entry is dropped rather than surfaced
		r.logger.Warn("discarding unparseable uploaded-file list", zap.Error(err))
		if _, err := r.db.Exec(`DELETE FROM session_state WHERE key = ?`, keyUploadedFiles); err != nil {
			r.logger.Warn("failed to delete corrupt entry", zap.Error(err))
		}
		return nil
	}
	return files
}

func (r *StateRepository) save(key, value string) {
	_, err := r.db.Exec(`
		INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		r.logger.Warn("failed to persist session state", zap.String("key", key), zap.Error(err))
	}
}

func (r *StateRepository) saveFiles() {
	data, err := json.Marshal(r.files)
	if err != nil {
		r.logger.Warn("failed to encode uploaded-file list", zap.Error(err))
		return
	}
	r.save(keyUploadedFiles, string(data))
}
