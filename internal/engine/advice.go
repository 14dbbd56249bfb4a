package engine

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/invopt/internal/domain"
)

// BuildReorderQueue turns computed items into the buyer action queue: every
// component below its coverage band, most urgent first. The projected
// stockout date extrapolates current cover from now; the order deadline
// backs the supplier lead time out of it. The clock is an argument so the
// queue stays a pure function of its inputs.
func BuildReorderQueue(items []domain.ComponentMetrics, now time.Time) []domain.ReorderRecommendation {
	queue := make([]domain.ReorderRecommendation, 0)
	for _, item := range items {
		if item.Status == domain.StatusOK {
			continue
		}

		rec := domain.ReorderRecommendation{
			ComponentID:         item.ComponentID,
			Category:            item.Category,
			Variant:             item.Variant,
			SupplierID:          item.SupplierID,
			SupplierName:        item.SupplierName,
			Status:              item.Status,
			Priority:            item.Status.Priority(),
			StockoutRisk:        item.StockoutRisk,
			WeeksOfCover:        item.WeeksOfCover,
			RecommendedOrderQty: item.RecommendedOrderQty,
			OrderCost:           item.OrderCost,
		}

		if item.WeeksOfCover < coverSentinelWeeks {
			leadTime := math.Max(item.LeadTimeWeeks, minLeadTimeWeeks)
			stockout := now.Add(weeksToDuration(item.WeeksOfCover))
			deadline := stockout.Add(-weeksToDuration(leadTime))
			rec.ProjectedStockout = &stockout
			rec.OrderDeadline = &deadline
			rec.Overdue = deadline.Before(now)
		}

		queue = append(queue, rec)
	}

	sort.Slice(queue, func(i, j int) bool {
		a, b := queue[i], queue[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.StockoutRisk != b.StockoutRisk {
			return a.StockoutRisk > b.StockoutRisk
		}

		return a.ComponentID < b.ComponentID
	})

	return queue
}

func weeksToDuration(weeks float64) time.Duration {
	return time.Duration(weeks * 7 * 24 * float64(time.Hour))
}
