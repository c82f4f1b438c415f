package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	return New(Options{
		ServiceName: "test",
		Level:       zerolog.DebugLevel,
		Output:      buf,
	})
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestInfo_IncludesServiceField(t *testing.T) {
	var buf bytes.Buffer
	logg := newTestLogger(&buf)

	logg.Info(context.Background(), "hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "test", entry["service"])
	assert.Equal(t, "hello", entry["message"])
}

func TestWithStoreID_CarriesThroughContext(t *testing.T) {
	var buf bytes.Buffer
	logg := newTestLogger(&buf)

	ctx := logg.WithStoreID(context.Background(), "store-1")
	ctx = logg.WithPhase(ctx, "orders")
	logg.Info(ctx, "syncing")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "store-1", entry["store_id"])
	assert.Equal(t, "orders", entry["phase"])
}

func TestError_AttachesErrorAndStack(t *testing.T) {
	var buf bytes.Buffer
	logg := newTestLogger(&buf)

	logg.Error(context.Background(), "boom", errors.New("bad"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "bad", entry["error"])
	assert.NotEmpty(t, entry["stack"])
}

func TestError_AttachesDriverDetails(t *testing.T) {
	var buf bytes.Buffer
	logg := newTestLogger(&buf)

	cause := &pgconn.PgError{Code: "23505", ConstraintName: "orders_store_woo_key"}
	logg.Error(context.Background(), "save failed", fmt.Errorf("upsert order: %w", cause))

	entry := decodeLine(t, &buf)
	details, ok := entry["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "23505", details["pg_code"])
	assert.Equal(t, "orders_store_woo_key", details["pg_constraint"])
}
