package sync

import (
	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

// utmKeyPriority maps each UTM dimension to the metadata keys that may carry
// it, most specific first. The first non-empty value wins; later keys never
// overwrite it. Covers the WooCommerce order attribution feature plus the
// plain keys older tracking plugins write.
var utmKeyPriority = map[string][]string{
	"source":   {"_wc_order_attribution_utm_source", "utm_source", "_utm_source"},
	"medium":   {"_wc_order_attribution_utm_medium", "utm_medium", "_utm_medium"},
	"campaign": {"_wc_order_attribution_utm_campaign", "utm_campaign", "_utm_campaign"},
	"term":     {"_wc_order_attribution_utm_term", "utm_term", "_utm_term"},
	"content":  {"_wc_order_attribution_utm_content", "utm_content", "_utm_content"},
}

// UTM holds the extracted attribution values; nil means the dimension was
// absent from the metadata.
type UTM struct {
	Source   *string
	Medium   *string
	Campaign *string
	Term     *string
	Content  *string
}

// Empty reports whether no dimension was found.
func (u UTM) Empty() bool {
	return u.Source == nil && u.Medium == nil && u.Campaign == nil && u.Term == nil && u.Content == nil
}

// extractUTM scans the order metadata bag for attribution values per the
// key priority lists. Structured (non-scalar) values are ignored.
func extractUTM(meta []woo.MetaEntry) UTM {
	values := make(map[string]string, len(meta))
	for _, entry := range meta {
		if _, seen := values[entry.Key]; seen {
			continue
		}
		if v := entry.String(); v != "" {
			values[entry.Key] = v
		}
	}

	pick := func(dimension string) *string {
		for _, key := range utmKeyPriority[dimension] {
			if v, ok := values[key]; ok {
				return &v
			}
		}
		return nil
	}

	return UTM{
		Source:   pick("source"),
		Medium:   pick("medium"),
		Campaign: pick("campaign"),
		Term:     pick("term"),
		Content:  pick("content"),
	}
}
