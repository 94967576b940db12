package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockcal-backend/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	stores, err := Open(context.Background(), &config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	assert.NotNil(t, stores.Items)
	assert.NotNil(t, stores.History)
	assert.NotNil(t, stores.Ledger)
	assert.NotNil(t, stores.Events)
	assert.NoError(t, stores.Close())
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "open.db")}
	stores, err := Open(context.Background(), cfg)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer stores.Close()

	items, err := stores.Items.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "mongo"})
	assert.EqualError(t, err, `unsupported store driver "mongo"`)
}
