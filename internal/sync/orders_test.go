package sync

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

func TestOrderQueryParams_IncrementalWindow(t *testing.T) {
	since := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	params := orderQueryParams(OrdersOptions{Since: &since})

	assert.Equal(t, "any", params.Get("status"))
	assert.Equal(t, "2024-06-01T08:30:00", params.Get("after"))
}

func TestOrderQueryParams_FullIgnoresSince(t *testing.T) {
	since := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	params := orderQueryParams(OrdersOptions{Since: &since, Full: true})

	assert.Empty(t, params.Get("after"))
}

func TestAccumulateRemoteDay(t *testing.T) {
	days := make(map[string]types.RemoteDay)
	accumulateRemoteDay(days, woo.Order{Total: "42.50", DateCreatedGMT: "2024-06-01T10:00:00"})
	accumulateRemoteDay(days, woo.Order{Total: "10.00", DateCreatedGMT: "2024-06-01T23:59:59"})
	accumulateRemoteDay(days, woo.Order{Total: "5.00", DateCreatedGMT: "2024-06-02T00:00:01"})
	accumulateRemoteDay(days, woo.Order{Total: "9.99"}) // no creation date

	require.Len(t, days, 2)
	assert.Equal(t, 2, days["2024-06-01"].Orders)
	assert.True(t, days["2024-06-01"].Revenue.Equal(decimal.RequireFromString("52.50")))
	assert.Equal(t, 1, days["2024-06-02"].Orders)
}

func TestLineSubtotal_TreatsMalformedAsZero(t *testing.T) {
	subtotal := lineSubtotal([]woo.LineItem{
		{Subtotal: "45.00"},
		{Subtotal: ""},
		{Subtotal: "oops"},
	})
	assert.True(t, subtotal.Equal(decimal.RequireFromString("45.00")))
}
