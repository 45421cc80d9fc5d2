package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/futig/docsearch-backend/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "docsearch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func TestStoreContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repotest.Store {
		return newTestStore(t)
	})
}

func TestMigrationsAreRecorded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsearch.db")

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// reopening must not re-run the initial migration
	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	var (
		version int
		dirty   bool
	)
	require.NoError(t, second.db.QueryRow("SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty))
	assert.Equal(t, 1, version)
	assert.False(t, dirty)
}

func TestEmbeddingRoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	assert.Equal(t, in, decodeEmbedding(encodeEmbedding(in)))
}
