package stores

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	// In-memory sqlite is per-connection; pin the pool to one.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&models.Store{}))
	return conn
}

func seedStore(t *testing.T, repo *Repository, name string, active bool) *models.Store {
	t.Helper()
	store, err := repo.Create(context.Background(), &models.Store{
		Name:           name,
		BaseURL:        "https://" + name + ".example.com",
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		AuthMode:       models.StoreAuthModeQuery,
		IsActive:       active,
	})
	require.NoError(t, err)
	return store
}

func TestListActive_SkipsInactiveStores(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	seedStore(t, repo, "alpha", true)
	seedStore(t, repo, "beta", false)

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "alpha", active[0].Name)
}

func TestTouchLastSyncedAt(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	store := seedStore(t, repo, "alpha", true)

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastSyncedAt(context.Background(), store.ID, at))

	got, err := repo.FindByID(context.Background(), store.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSyncedAt)
	assert.True(t, got.LastSyncedAt.Equal(at))
}

func TestFindByID_Missing(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
