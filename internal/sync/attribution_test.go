package sync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

func meta(key, value string) woo.MetaEntry {
	raw, _ := json.Marshal(value)
	return woo.MetaEntry{Key: key, Value: raw}
}

func TestExtractUTM_PluginKeysWinOverPlainKeys(t *testing.T) {
	utm := extractUTM([]woo.MetaEntry{
		meta("utm_source", "newsletter"),
		meta("_wc_order_attribution_utm_source", "google"),
	})

	require.NotNil(t, utm.Source)
	assert.Equal(t, "google", *utm.Source)
}

func TestExtractUTM_FallsBackThroughPriorityList(t *testing.T) {
	utm := extractUTM([]woo.MetaEntry{
		meta("utm_medium", "email"),
		meta("_utm_campaign", "spring-sale"),
	})

	require.NotNil(t, utm.Medium)
	assert.Equal(t, "email", *utm.Medium)
	require.NotNil(t, utm.Campaign)
	assert.Equal(t, "spring-sale", *utm.Campaign)
	assert.Nil(t, utm.Source)
}

func TestExtractUTM_IgnoresStructuredAndBlankValues(t *testing.T) {
	utm := extractUTM([]woo.MetaEntry{
		{Key: "_wc_order_attribution_utm_source", Value: json.RawMessage(`{"nested":"x"}`)},
		meta("utm_source", ""),
	})

	assert.True(t, utm.Empty())
}

func TestExtractUTM_FirstValueWinsOnDuplicateKeys(t *testing.T) {
	utm := extractUTM([]woo.MetaEntry{
		meta("utm_source", "first"),
		meta("utm_source", "second"),
	})

	require.NotNil(t, utm.Source)
	assert.Equal(t, "first", *utm.Source)
}
