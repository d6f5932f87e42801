package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Karim-Bennia/minirag-console/internal/config"
	"github.com/Karim-Bennia/minirag-console/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Ingest: config.IngestConfig{
			ChunkSize:   1000,
			OverlapSize: 100,
		},
	}
}

func newTestState(t *testing.T) *repository.StateRepository {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewStateRepository(db, zap.NewNop())
}
