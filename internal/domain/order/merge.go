package order

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MergedOrder is the view-only join of an order with its tracking and custom records
type MergedOrder struct {
	Order         Order
	Tracking      *Tracking
	CustomOrder   *CustomOrder
	DisplayStatus Status
}

// Merge joins the three collections by order id, newest order first.
// Orders with equal creation times keep their input order.
func Merge(orders []Order, trackings []Tracking, customs []CustomOrder) []MergedOrder {
	trackingByOrder := make(map[string]*Tracking, len(trackings))
	for i := range trackings {
		trackingByOrder[trackings[i].OrderID] = &trackings[i]
	}
	customByOrder := make(map[string]*CustomOrder, len(customs))
	for i := range customs {
		customByOrder[customs[i].OrderID] = &customs[i]
	}

	merged := make([]MergedOrder, 0, len(orders))
	for i := range orders {
		o := orders[i]
		t := trackingByOrder[o.ID]
		merged = append(merged, MergedOrder{
			Order:         o,
			Tracking:      t,
			CustomOrder:   customByOrder[o.ID],
			DisplayStatus: DisplayStatus(&o, t),
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Order.CreatedAt.After(merged[j].Order.CreatedAt)
	})
	return merged
}

// Stats summarizes a set of merged orders
type Stats struct {
	Total        int
	StatusCounts map[Status]int
	Revenue      decimal.Decimal
}

// CountByStatus counts orders per display status. Every canonical status is present.
func CountByStatus(orders []MergedOrder) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, o := range orders {
		counts[o.DisplayStatus]++
	}
	return counts
}

// Summarize computes order counts and revenue. Cancelled orders earn nothing.
func Summarize(orders []MergedOrder) Stats {
	revenue := decimal.Zero
	for _, o := range orders {
		if o.DisplayStatus == StatusCancelled {
			continue
		}
		revenue = revenue.Add(o.Order.Total)
	}
	return Stats{
		Total:        len(orders),
		StatusCounts: CountByStatus(orders),
		Revenue:      revenue,
	}
}
