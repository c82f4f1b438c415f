package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/config"
)

func TestNew_RequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, nil)
	require.Error(t, err)
}

func TestNew_SQLiteRoundTrip(t *testing.T) {
	cfg := config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: "sqlite",
	}

	client, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	require.NoError(t, client.Ping(context.Background()))

	type probe struct {
		ID   int `gorm:"primaryKey"`
		Name string
	}
	require.NoError(t, client.DB().AutoMigrate(&probe{}))

	err = client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&probe{ID: 1, Name: "ok"}).Error
	})
	require.NoError(t, err)

	var got probe
	require.NoError(t, client.DB().First(&got, 1).Error)
	assert.Equal(t, "ok", got.Name)
}
