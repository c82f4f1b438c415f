package models

// All lists every model in dependency order, for AutoMigrate-based setups
// (sqlite tests and the dev auto-migrate path).
func All() []any {
	return []any{
		&Store{},
		&Product{},
		&ProductCategory{},
		&ProductCategoryLink{},
		&Customer{},
		&Order{},
		&OrderItem{},
		&OrderCoupon{},
		&Refund{},
		&OrderAttribution{},
		&Coupon{},
		&Subscription{},
		&DailySummary{},
		&CustomerScore{},
		&CohortMonthly{},
		&CustomerAcquisition{},
		&Reconciliation{},
	}
}
