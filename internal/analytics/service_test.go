package analytics

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/config"
	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/logger"
	"github.com/shopmetrics/shopmetrics-backend/pkg/metrics"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type harness struct {
	svc     *Service
	conn    *gorm.DB
	storeID uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	// In-memory sqlite is per-connection; pin the pool to one.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc := NewService(conn, config.SyncConfig{SummaryWindowDays: 120}, metrics.NewSyncMetrics(nil), logg)
	svc.now = func() time.Time { return testNow }

	return &harness{svc: svc, conn: conn, storeID: uuid.New()}
}

func (h *harness) seedCustomer(t *testing.T) uuid.UUID {
	t.Helper()
	customer := &models.Customer{
		ID:      uuid.New(),
		StoreID: h.storeID,
		Email:   uuid.NewString() + "@example.com",
	}
	require.NoError(t, h.conn.Create(customer).Error)
	return customer.ID
}

func (h *harness) seedOrder(t *testing.T, customerID *uuid.UUID, total string, at time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:           uuid.New(),
		StoreID:      h.storeID,
		WooID:        time.Now().UnixNano(),
		CustomerID:   customerID,
		Status:       "completed",
		Total:        decimal.RequireFromString(total),
		WooCreatedAt: at,
	}
	require.NoError(t, h.conn.Create(order).Error)
	return order
}

func TestDailySummaries(t *testing.T) {
	h := newHarness(t)
	customerID := h.seedCustomer(t)
	day := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	first := h.seedOrder(t, &customerID, "30.00", day)
	h.seedOrder(t, &customerID, "20.00", day.Add(2*time.Hour))
	require.NoError(t, h.conn.Create(&models.OrderItem{
		ID: uuid.New(), OrderID: first.ID, Name: "Tea", Quantity: 3,
	}).Error)
	require.NoError(t, h.conn.Create(&models.Refund{
		ID: uuid.New(), OrderID: first.ID, WooID: 1,
		Amount: decimal.RequireFromString("5.00"), WooCreatedAt: day.Add(4 * time.Hour),
	}).Error)
	// Outside the 120-day window; must not produce a summary row.
	h.seedOrder(t, &customerID, "99.00", testNow.AddDate(0, 0, -200))

	summary := h.svc.runDailySummaries(context.Background(), h.storeID)
	require.Empty(t, summary.Warnings)
	assert.Equal(t, 1, summary.Processed)

	var row models.DailySummary
	require.NoError(t, h.conn.Where("store_id = ?", h.storeID).First(&row).Error)
	assert.Equal(t, 2, row.OrdersCount)
	assert.True(t, row.Revenue.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, 3, row.Units)
	assert.Equal(t, 1, row.UniqueCustomers)
	assert.True(t, row.AOV.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, row.RefundsAmount.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, row.NetRevenue.Equal(decimal.RequireFromString("45.00")))
}

func TestDailySummaries_Idempotent(t *testing.T) {
	h := newHarness(t)
	customerID := h.seedCustomer(t)
	h.seedOrder(t, &customerID, "30.00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))

	for i := 0; i < 2; i++ {
		summary := h.svc.runDailySummaries(context.Background(), h.storeID)
		require.Empty(t, summary.Warnings)
	}

	var n int64
	require.NoError(t, h.conn.Model(&models.DailySummary{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestRFMBreakpoints(t *testing.T) {
	assert.Equal(t, 5, scoreRecency(7))
	assert.Equal(t, 4, scoreRecency(8))
	assert.Equal(t, 3, scoreRecency(90))
	assert.Equal(t, 2, scoreRecency(180))
	assert.Equal(t, 1, scoreRecency(181))

	assert.Equal(t, 5, scoreFrequency(10))
	assert.Equal(t, 4, scoreFrequency(5))
	assert.Equal(t, 3, scoreFrequency(3))
	assert.Equal(t, 2, scoreFrequency(2))
	assert.Equal(t, 1, scoreFrequency(1))

	assert.Equal(t, 5, scoreMonetary(decimal.NewFromInt(1000)))
	assert.Equal(t, 4, scoreMonetary(decimal.NewFromInt(500)))
	assert.Equal(t, 3, scoreMonetary(decimal.NewFromInt(200)))
	assert.Equal(t, 2, scoreMonetary(decimal.NewFromInt(100)))
	assert.Equal(t, 1, scoreMonetary(decimal.RequireFromString("99.99")))
}

func TestFrequencyScoreIsMonotonic(t *testing.T) {
	for orders := 1; orders < 20; orders++ {
		assert.GreaterOrEqual(t, scoreFrequency(orders+1), scoreFrequency(orders))
	}
}

func TestSegments(t *testing.T) {
	assert.Equal(t, SegmentChampions, segment(4, 4, 4))
	assert.Equal(t, SegmentLoyal, segment(5, 5, 3))
	assert.Equal(t, SegmentLoyal, segment(3, 3, 1))
	assert.Equal(t, SegmentPromising, segment(3, 2, 5))
	assert.Equal(t, SegmentAtRisk, segment(2, 5, 5))
}

func TestCustomerScores(t *testing.T) {
	h := newHarness(t)
	customerID := h.seedCustomer(t)
	// Last order 3 days before now (R5), 3 orders (F3), 250 total (M3).
	h.seedOrder(t, &customerID, "100.00", testNow.AddDate(0, 0, -40))
	h.seedOrder(t, &customerID, "100.00", testNow.AddDate(0, 0, -20))
	h.seedOrder(t, &customerID, "50.00", testNow.AddDate(0, 0, -3))

	summary := h.svc.runCustomerScores(context.Background(), h.storeID)
	require.Empty(t, summary.Warnings)
	assert.Equal(t, 1, summary.Processed)

	var score models.CustomerScore
	require.NoError(t, h.conn.Where("customer_id = ?", customerID).First(&score).Error)
	assert.Equal(t, 3, score.RecencyDays)
	assert.Equal(t, 3, score.Frequency)
	assert.True(t, score.Monetary.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, 533, score.RFMScore)
	assert.Equal(t, SegmentLoyal, score.Segment)
}

func TestCohorts(t *testing.T) {
	h := newHarness(t)
	retained := h.seedCustomer(t)
	churned := h.seedCustomer(t)

	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	h.seedOrder(t, &retained, "10.00", jan)
	h.seedOrder(t, &churned, "10.00", jan.AddDate(0, 0, 5))
	// Only one of the two comes back in March.
	h.seedOrder(t, &retained, "10.00", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))

	summary := h.svc.runCohorts(context.Background(), h.storeID)
	require.Empty(t, summary.Warnings)
	assert.Equal(t, 2, summary.Processed)

	var period0 models.CohortMonthly
	require.NoError(t, h.conn.Where("cohort_month = ? AND period_month = 0", "2024-01").First(&period0).Error)
	assert.Equal(t, 2, period0.CustomersInCohort)
	assert.Equal(t, 2, period0.ActiveCustomers)
	assert.InDelta(t, 100.0, period0.RetentionRate, 1e-9)

	var period2 models.CohortMonthly
	require.NoError(t, h.conn.Where("cohort_month = ? AND period_month = 2", "2024-01").First(&period2).Error)
	assert.Equal(t, 1, period2.ActiveCustomers)
	assert.InDelta(t, 50.0, period2.RetentionRate, 1e-9)
	assert.GreaterOrEqual(t, period2.RetentionRate, 0.0)
	assert.LessOrEqual(t, period2.RetentionRate, 100.0)
}

func TestMonthOffset_CrossesYearBoundary(t *testing.T) {
	nov := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, monthOffset(nov, feb))
	assert.Equal(t, 0, monthOffset(nov, nov))
}

func TestAcquisition_FirstOrderWins(t *testing.T) {
	h := newHarness(t)
	customerID := h.seedCustomer(t)

	first := h.seedOrder(t, &customerID, "10.00", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	second := h.seedOrder(t, &customerID, "10.00", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))

	source := "google"
	require.NoError(t, h.conn.Create(&models.OrderAttribution{
		ID: uuid.New(), OrderID: first.ID, UTMSource: &source,
	}).Error)
	other := "newsletter"
	require.NoError(t, h.conn.Create(&models.OrderAttribution{
		ID: uuid.New(), OrderID: second.ID, UTMSource: &other,
	}).Error)

	summary := h.svc.runAcquisition(context.Background(), h.storeID)
	require.Empty(t, summary.Warnings)
	assert.Equal(t, 1, summary.Processed)

	var row models.CustomerAcquisition
	require.NoError(t, h.conn.Where("customer_id = ?", customerID).First(&row).Error)
	assert.Equal(t, first.ID, row.FirstOrderID)
	require.NotNil(t, row.UTMSource)
	assert.Equal(t, "google", *row.UTMSource)
}

func TestReconciliation_MatchThenDrift(t *testing.T) {
	h := newHarness(t)
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	h.seedOrder(t, nil, "60.00", day)
	perturbed := h.seedOrder(t, nil, "40.00", day.Add(time.Hour))

	remote := map[string]types.RemoteDay{
		"2024-01-01": {Orders: 2, Revenue: decimal.RequireFromString("100.00")},
	}

	summary := h.svc.runReconciliation(context.Background(), h.storeID, remote)
	require.Empty(t, summary.Warnings)
	assert.Equal(t, 1, summary.Processed)

	var row models.Reconciliation
	require.NoError(t, h.conn.Where("store_id = ?", h.storeID).First(&row).Error)
	assert.Equal(t, models.ReconciliationStatusOK, row.Status)
	assert.True(t, row.DiffRevenue.IsZero())

	// Perturb one local total by 1.00 and re-run: status flips to mismatch.
	require.NoError(t, h.conn.Model(&models.Order{}).
		Where("id = ?", perturbed.ID).
		Update("total", decimal.RequireFromString("41.00")).Error)

	summary = h.svc.runReconciliation(context.Background(), h.storeID, remote)
	require.Empty(t, summary.Warnings)

	require.NoError(t, h.conn.Where("store_id = ?", h.storeID).First(&row).Error)
	assert.Equal(t, models.ReconciliationStatusMismatch, row.Status)
	require.NotNil(t, row.Note)
}

func TestReconciliation_OrderCountDriftFlagsMatchingRevenue(t *testing.T) {
	h := newHarness(t)
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	h.seedOrder(t, nil, "50.00", day)
	h.seedOrder(t, nil, "50.00", day.Add(time.Hour))

	// Remote saw one order for the same revenue: counts disagree, totals match.
	remote := map[string]types.RemoteDay{
		"2024-01-01": {Orders: 1, Revenue: decimal.RequireFromString("100.00")},
	}

	summary := h.svc.runReconciliation(context.Background(), h.storeID, remote)
	require.Empty(t, summary.Warnings)

	var row models.Reconciliation
	require.NoError(t, h.conn.Where("store_id = ?", h.storeID).First(&row).Error)
	assert.Equal(t, models.ReconciliationStatusMismatch, row.Status)
	assert.True(t, row.DiffRevenue.IsZero())
	require.NotNil(t, row.Note)
	assert.Contains(t, *row.Note, "order count drift")
}

func TestRunAll_EmitsOneSummaryPerPass(t *testing.T) {
	h := newHarness(t)

	summaries, err := h.svc.RunAll(context.Background(), h.storeID, map[string]types.RemoteDay{})
	require.NoError(t, err)
	require.Len(t, summaries, 5)
	assert.Equal(t, "daily_summaries", summaries[0].Entity)
	assert.Equal(t, "reconciliation", summaries[4].Entity)
}
