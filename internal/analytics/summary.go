package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"opsboard/internal/partsorder"
)

// Status buckets every record classifies into exactly one of.
const (
	BucketDelivered = "delivered"
	BucketPending   = "pending"
	BucketCancelled = "cancelled"
)

// VendorPerformance holds on-time delivery counts for a single vendor.
// OnTimeRate is a percentage, 0 when the vendor has no delivered orders.
type VendorPerformance struct {
	Vendor         string  `json:"vendor"`
	OnTimeCount    int     `json:"onTimeCount"`
	TotalDelivered int     `json:"totalDelivered"`
	OnTimeRate     float64 `json:"onTimeRate"`
}

// Summary is an immutable snapshot of the whole record collection. It is
// produced fresh on every aggregation call and never mutated in place.
type Summary struct {
	TotalRecords       int            `json:"totalRecords"`
	StatusBreakdown    map[string]int `json:"statusBreakdown"`
	ApplianceBreakdown map[string]int `json:"applianceBreakdown"`
	VendorBreakdown    map[string]int `json:"vendorBreakdown"`
	DistrictBreakdown  map[string]int `json:"districtBreakdown"`

	BackorderCount  int     `json:"backorderCount"`
	OnTimeRate      float64 `json:"onTimeRate"`
	AvgDeliveryDays float64 `json:"avgDeliveryDays"`

	TotalCost    decimal.Decimal `json:"totalCost"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	Margin       decimal.Decimal `json:"margin"`

	VendorPerformance []VendorPerformance `json:"vendorPerformance"`
	OverdueOrders     []partsorder.Record `json:"overdueOrders"`
	GeneratedAt       time.Time           `json:"generatedAt"`
}

// Summarize computes a Summary over records. The now argument anchors the
// overdue classification, which is relative and recomputed on every call.
// An empty collection yields an all-zero Summary, never an error.
func Summarize(records []partsorder.Record, now time.Time) Summary {
	s := Summary{
		TotalRecords:       len(records),
		StatusBreakdown:    map[string]int{BucketDelivered: 0, BucketPending: 0, BucketCancelled: 0},
		ApplianceBreakdown: make(map[string]int),
		VendorBreakdown:    make(map[string]int),
		DistrictBreakdown:  make(map[string]int),
		TotalCost:          decimal.Zero,
		TotalRevenue:       decimal.Zero,
		Margin:             decimal.Zero,
		OverdueOrders:      []partsorder.Record{},
		GeneratedAt:        now,
	}

	type vendorTally struct{ onTime, delivered int }
	vendors := make(map[string]*vendorTally)

	onTimeTotal := 0
	onTimeEligible := 0
	deliveryDaysSum := 0
	deliveryDaysCount := 0

	for _, rec := range records {
		// 1. Exclusive status classification
		switch {
		case rec.IsDelivered():
			s.StatusBreakdown[BucketDelivered]++
		case rec.IsCancelled():
			s.StatusBreakdown[BucketCancelled]++
		default:
			s.StatusBreakdown[BucketPending]++
		}

		if rec.Appliance != "" {
			s.ApplianceBreakdown[rec.Appliance]++
		}
		if rec.Vendor != "" {
			s.VendorBreakdown[rec.Vendor]++
		}
		if rec.DistrictName != "" {
			s.DistrictBreakdown[rec.DistrictName]++
		}

		if rec.IsBackordered() {
			s.BackorderCount++
		}

		s.TotalCost = s.TotalCost.Add(rec.LineCost())
		s.TotalRevenue = s.TotalRevenue.Add(rec.LineValue())

		// 2. Delivery timing, only for rows with both endpoints
		if rec.IsDelivered() {
			if days, ok := rec.DeliveryDays(); ok {
				deliveryDaysSum += days
				deliveryDaysCount++
			}

			// On-time needs an estimate; rows without one are excluded
			// from the denominator rather than counted late.
			if !rec.EstimatedDeliveryDate.IsZero() && !rec.ActualDeliveryDate.IsZero() {
				onTime := !rec.ActualDeliveryDate.After(rec.EstimatedDeliveryDate)
				onTimeEligible++
				if onTime {
					onTimeTotal++
				}

				v := vendors[rec.Vendor]
				if v == nil {
					v = &vendorTally{}
					vendors[rec.Vendor] = v
				}
				v.delivered++
				if onTime {
					v.onTime++
				}
			}
		}

		// 3. Overdue open orders, relative to now
		if rec.IsOverdue(now) {
			s.OverdueOrders = append(s.OverdueOrders, rec)
		}
	}

	s.OnTimeRate = Percent(onTimeTotal, onTimeEligible)
	if deliveryDaysCount > 0 {
		s.AvgDeliveryDays = Round1(float64(deliveryDaysSum) / float64(deliveryDaysCount))
	}
	s.Margin = s.TotalRevenue.Sub(s.TotalCost)

	for name, v := range vendors {
		s.VendorPerformance = append(s.VendorPerformance, VendorPerformance{
			Vendor:         name,
			OnTimeCount:    v.onTime,
			TotalDelivered: v.delivered,
			OnTimeRate:     Percent(v.onTime, v.delivered),
		})
	}
	sort.Slice(s.VendorPerformance, func(i, j int) bool {
		return s.VendorPerformance[i].Vendor < s.VendorPerformance[j].Vendor
	})

	return s
}
