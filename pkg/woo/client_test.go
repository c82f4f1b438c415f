package woo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, mode AuthMode, pageSize int) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:        baseURL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		AuthMode:       mode,
		Timeout:        2 * time.Second,
		PageSize:       pageSize,
		RetryAttempts:  3,
		RetryBackoff:   time.Millisecond,
	}, nil)
	require.NoError(t, err)
	return client
}

func writeProducts(w http.ResponseWriter, products []Product) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(products)
}

func makeProducts(n int, offset int) []Product {
	out := make([]Product, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Product{ID: int64(offset + i + 1), Name: fmt.Sprintf("p%d", offset+i+1)})
	}
	return out
}

func TestFetchProducts_PaginatesUntilShortPage(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		switch page {
		case "1":
			writeProducts(w, makeProducts(2, 0))
		case "2":
			writeProducts(w, makeProducts(1, 2))
		default:
			t.Fatalf("unexpected page %s", page)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, AuthModeQuery, 2)

	products, err := client.FetchProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, []string{"1", "2"}, pages)
}

func TestFetchProducts_RetriesOnServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		writeProducts(w, makeProducts(1, 0))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, AuthModeQuery, 10)

	products, err := client.FetchProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 2, calls)
}

func TestFetchProducts_ExhaustedRetriesSurfaceTaggedError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, AuthModeQuery, 10)

	_, err := client.FetchProducts(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "DEPENDENCY_ERROR")
}

func TestFetchProducts_RecoverAfterRateLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		writeProducts(w, makeProducts(1, 0))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, AuthModeQuery, 10)

	products, err := client.FetchProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestAuthModes(t *testing.T) {
	var gotQueryKey string
	var gotBasicUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQueryKey = r.URL.Query().Get("consumer_key")
		if user, _, ok := r.BasicAuth(); ok {
			gotBasicUser = user
		}
		writeProducts(w, nil)
	}))
	defer srv.Close()

	queryClient := newTestClient(t, srv.URL, AuthModeQuery, 10)
	_, err := queryClient.FetchProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ck_test", gotQueryKey)
	assert.Empty(t, gotBasicUser)

	gotQueryKey = ""
	basicClient := newTestClient(t, srv.URL, AuthModeBasic, 10)
	_, err = basicClient.FetchProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ck_test", gotBasicUser)
	assert.Empty(t, gotQueryKey)
}

func TestFetchOrders_ForwardsFilterParams(t *testing.T) {
	var gotAfter, gotStatus string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAfter = r.URL.Query().Get("after")
		gotStatus = r.URL.Query().Get("status")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, AuthModeQuery, 10)

	params := url.Values{}
	params.Set("after", "2024-01-01T00:00:00")
	params.Set("status", "any")
	_, err := client.FetchOrders(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00", gotAfter)
	assert.Equal(t, "any", gotStatus)
}

func TestFetchRefunds_UsesOrderSubresource(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 7, "amount": "5.00", "reason": "damaged"}]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, AuthModeQuery, 10)

	refunds, err := client.FetchRefunds(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, "/wp-json/wc/v3/orders/100/refunds", gotPath)
	assert.Equal(t, "5.00", refunds[0].Amount)
}
