package woo

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WooCommerce REST v3 wire shapes. Money fields arrive as strings; timestamps
// as naive GMT strings ("2006-01-02T15:04:05").

const timeLayout = "2006-01-02T15:04:05"

// ParseTime decodes a WooCommerce GMT timestamp. Returns nil for empty input.
func ParseTime(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	ts, err := time.Parse(timeLayout, trimmed)
	if err != nil {
		// Some deployments return RFC3339 with an explicit offset.
		ts, err = time.Parse(time.RFC3339, trimmed)
		if err != nil {
			return nil
		}
	}
	utc := ts.UTC()
	return &utc
}

// ParseAmount decodes a WooCommerce money string, treating blanks and
// malformed values as zero.
func ParseAmount(value string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	SKU        string     `json:"sku"`
	Price      string     `json:"price"`
	Status     string     `json:"status"`
	Categories []Category `json:"categories"`
}

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Customer struct {
	ID             int64   `json:"id"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Billing        Billing `json:"billing"`
	DateCreatedGMT string  `json:"date_created_gmt"`
}

type LineItem struct {
	ID        int64       `json:"id"`
	ProductID int64       `json:"product_id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
	Subtotal  string      `json:"subtotal"`
	Total     string      `json:"total"`
}

type CouponLine struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Discount string `json:"discount"`
}

// MetaEntry is one entry of the order metadata bag. Values are free-form;
// String coerces scalars and ignores structured payloads.
type MetaEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// String returns the metadata value when it is a JSON string or number.
func (m MetaEntry) String() string {
	if len(m.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m.Value, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(m.Value, &n); err == nil {
		return n.String()
	}
	return ""
}

// RefundSummary is the abbreviated refund reference embedded in an order.
// Full refund records live on the per-order refunds endpoint.
type RefundSummary struct {
	ID    int64  `json:"id"`
	Total string `json:"total"`
}

type Order struct {
	ID             int64           `json:"id"`
	Status         string          `json:"status"`
	Currency       string          `json:"currency"`
	CustomerID     int64           `json:"customer_id"`
	Total          string          `json:"total"`
	DiscountTotal  string          `json:"discount_total"`
	ShippingTotal  string          `json:"shipping_total"`
	TotalTax       string          `json:"total_tax"`
	PaymentMethod  string          `json:"payment_method_title"`
	Billing        Billing         `json:"billing"`
	LineItems      []LineItem      `json:"line_items"`
	CouponLines    []CouponLine    `json:"coupon_lines"`
	MetaData       []MetaEntry     `json:"meta_data"`
	Refunds        []RefundSummary `json:"refunds"`
	DateCreatedGMT string          `json:"date_created_gmt"`
}

type Refund struct {
	ID             int64  `json:"id"`
	Amount         string `json:"amount"`
	Reason         string `json:"reason"`
	DateCreatedGMT string `json:"date_created_gmt"`
}

type Coupon struct {
	ID             int64  `json:"id"`
	Code           string `json:"code"`
	Amount         string `json:"amount"`
	DiscountType   string `json:"discount_type"`
	UsageCount     int    `json:"usage_count"`
	UsageLimit     *int   `json:"usage_limit"`
	DateExpiresGMT string `json:"date_expires_gmt"`
}

type Subscription struct {
	ID                 int64      `json:"id"`
	Status             string     `json:"status"`
	CustomerID         int64      `json:"customer_id"`
	Total              string     `json:"total"`
	BillingPeriod      string     `json:"billing_period"`
	BillingInterval    string     `json:"billing_interval"`
	Billing            Billing    `json:"billing"`
	LineItems          []LineItem `json:"line_items"`
	NextPaymentDateGMT string     `json:"next_payment_date_gmt"`
	DateCreatedGMT     string     `json:"date_created_gmt"`
}
