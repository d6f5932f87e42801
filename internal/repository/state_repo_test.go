package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Karim-Bennia/minirag-console/internal/domain"
)

func newTestDB(t *testing.T, path string) *DB {
	t.Helper()

	db, err := NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStateRepository_ReloadReconstructsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	db := newTestDB(t, path)
	repo := NewStateRepository(db, zap.NewNop())
	repo.SetProject("2")
	repo.SetActiveFile("abc")
	repo.AppendFile(&domain.UploadedFile{ID: "abc", Name: "doc.pdf", Size: 1234})
	require.NoError(t, db.Close())

	// A fresh repository over the same database sees the same state
	reopened := NewStateRepository(newTestDB(t, path), zap.NewNop())
	assert.Equal(t, domain.Selection{ProjectID: "2", ActiveFileID: "abc"}, reopened.Selection())

	files := reopened.Files()
	require.Len(t, files, 1)
	assert.Equal(t, &domain.UploadedFile{ID: "abc", Name: "doc.pdf", Size: 1234}, files[0])
}

func TestStateRepository_DefaultsWhenEmpty(t *testing.T) {
	repo := NewStateRepository(newTestDB(t, filepath.Join(t.TempDir(), "state.db")), zap.NewNop())

	assert.Equal(t, domain.Selection{}, repo.Selection())
	assert.Empty(t, repo.Files())
}

func TestStateRepository_CorruptFileListDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db := newTestDB(t, path)

	_, err := db.Exec(`INSERT INTO session_state (key, value) VALUES (?, ?)`,
		"uploaded_files", "{not json")
	require.NoError(t, err)

	repo := NewStateRepository(db, zap.NewNop())
	assert.Empty(t, repo.Files())

	// The corrupt row is gone, not resurrected on the next load
	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM session_state WHERE key = ?`, "uploaded_files").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestStateRepository_ProjectSwitchClearsActiveFile(t *testing.T) {
	repo := NewStateRepository(newTestDB(t, filepath.Join(t.TempDir(), "state.db")), zap.NewNop())

	repo.SetProject("1")
	repo.SetActiveFile("abc")

	// Re-selecting the same project keeps the file
	repo.SetProject("1")
	assert.Equal(t, "abc", repo.Selection().ActiveFileID)

	// Switching projects drops it
	repo.SetProject("2")
	assert.Equal(t, domain.Selection{ProjectID: "2", ActiveFileID: ""}, repo.Selection())
}

func TestStateRepository_AppendPreservesInsertionOrder(t *testing.T) {
	repo := NewStateRepository(newTestDB(t, filepath.Join(t.TempDir(), "state.db")), zap.NewNop())

	repo.AppendFile(&domain.UploadedFile{ID: "f1", Name: "one.txt", Size: 1})
	repo.AppendFile(&domain.UploadedFile{ID: "f2", Name: "two.txt", Size: 2})
	repo.AppendFile(&domain.UploadedFile{ID: "f3", Name: "three.txt", Size: 3})

	files := repo.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "f1", files[0].ID)
	assert.Equal(t, "f2", files[1].ID)
	assert.Equal(t, "f3", files[2].ID)
}

func TestStateRepository_ClearFilesSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db := newTestDB(t, path)

	repo := NewStateRepository(db, zap.NewNop())
	repo.AppendFile(&domain.UploadedFile{ID: "f1", Name: "one.txt", Size: 1})
	repo.ClearFiles()
	assert.Empty(t, repo.Files())
	require.NoError(t, db.Close())

	reopened := NewStateRepository(newTestDB(t, path), zap.NewNop())
	assert.Empty(t, reopened.Files())
}
