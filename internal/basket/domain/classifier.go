package domain

import (
	"sort"
	"time"

	leaddomain "github.com/salespool/leadrotor/internal/lead/domain"
)

// ClassifyAll buckets leads into baskets by evaluating configs as a
// decision list. Pure: no side effects, no persistence. Configs are
// evaluated in (display_order, id) order; a lead lands in the first
// matching basket only. Leads matching nothing stay unbucketed.
func ClassifyAll(now time.Time, leads []leaddomain.Lead, configs []BasketConfig) map[string][]leaddomain.Lead {
	ordered := activeOrdered(configs)

	buckets := make(map[string][]leaddomain.Lead, len(ordered))
	for _, cfg := range ordered {
		if _, ok := buckets[cfg.BasketKey]; !ok {
			buckets[cfg.BasketKey] = []leaddomain.Lead{}
		}
	}

	for _, ld := range leads {
		if key, ok := explicitBucket(ld, ordered); ok {
			buckets[key] = append(buckets[key], ld)
			continue
		}
		for _, cfg := range ordered {
			if Matches(now, ld, cfg) {
				buckets[cfg.BasketKey] = append(buckets[cfg.BasketKey], ld)
				break
			}
		}
	}

	return buckets
}

// Matches reports whether every non-null bound of the config holds for
// the lead. Order-date bounds are skipped entirely for leads with zero
// orders; only the order-count and registration bounds apply to them.
func Matches(now time.Time, ld leaddomain.Lead, cfg BasketConfig) bool {
	if cfg.MinOrderCount != nil && ld.OrderCount < *cfg.MinOrderCount {
		return false
	}
	if cfg.MaxOrderCount != nil && ld.OrderCount > *cfg.MaxOrderCount {
		return false
	}

	if cfg.DaysSinceRegistered != nil {
		if ld.DateRegistered == nil || daysSince(now, *ld.DateRegistered) < *cfg.DaysSinceRegistered {
			return false
		}
	}

	if ld.OrderCount == 0 {
		return true
	}

	if cfg.MinDaysSinceOrder != nil {
		if ld.LastOrderDate == nil || daysSince(now, *ld.LastOrderDate) < *cfg.MinDaysSinceOrder {
			return false
		}
	}
	if cfg.MaxDaysSinceOrder != nil {
		if ld.LastOrderDate == nil || daysSince(now, *ld.LastOrderDate) > *cfg.MaxDaysSinceOrder {
			return false
		}
	}
	if cfg.DaysSinceFirstOrder != nil {
		if ld.FirstOrderDate == nil || daysSince(now, *ld.FirstOrderDate) < *cfg.DaysSinceFirstOrder {
			return false
		}
	}

	return true
}

// explicitBucket honors a lead's explicit basket tag: a config whose
// basket_key or linked_basket_key equals the tag wins over rule
// evaluation.
func explicitBucket(ld leaddomain.Lead, ordered []BasketConfig) (string, bool) {
	if ld.CurrentBasketKey == nil || *ld.CurrentBasketKey == "" {
		return "", false
	}
	tag := *ld.CurrentBasketKey
	for _, cfg := range ordered {
		if cfg.BasketKey == tag {
			return cfg.BasketKey, true
		}
		if cfg.LinkedBasketKey != nil && *cfg.LinkedBasketKey == tag {
			return cfg.BasketKey, true
		}
	}
	return "", false
}

func activeOrdered(configs []BasketConfig) []BasketConfig {
	ordered := make([]BasketConfig, 0, len(configs))
	for _, cfg := range configs {
		if cfg.IsActive {
			ordered = append(ordered, cfg)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DisplayOrder != ordered[j].DisplayOrder {
			return ordered[i].DisplayOrder < ordered[j].DisplayOrder
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

func daysSince(now, t time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}
