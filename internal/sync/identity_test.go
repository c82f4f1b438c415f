package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerLookupPlan_AccountThenEmail(t *testing.T) {
	wooID := int64(5)
	plan := customerLookupPlan(&wooID, " Jane@Example.COM ")

	require.Len(t, plan, 2)
	assert.Equal(t, LookupByWooID, plan[0].Strategy)
	assert.Equal(t, int64(5), plan[0].WooID)
	assert.Equal(t, LookupByEmail, plan[1].Strategy)
	assert.Equal(t, "jane@example.com", plan[1].Email)
}

func TestCustomerLookupPlan_GuestOnlyHasEmail(t *testing.T) {
	plan := customerLookupPlan(nil, "guest@example.com")

	require.Len(t, plan, 1)
	assert.Equal(t, LookupByEmail, plan[0].Strategy)
}

func TestCustomerLookupPlan_ZeroWooIDIsGuest(t *testing.T) {
	zero := int64(0)
	plan := customerLookupPlan(&zero, "guest@example.com")

	require.Len(t, plan, 1)
	assert.Equal(t, LookupByEmail, plan[0].Strategy)
}

func TestCustomerLookupPlan_EmptyIdentity(t *testing.T) {
	assert.Empty(t, customerLookupPlan(nil, "  "))
}
