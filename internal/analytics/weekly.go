package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"opsboard/internal/fiscal"
	"opsboard/internal/partsorder"
)

// DefaultWeeklyWindow is how many trailing fiscal weeks the dashboard
// surfaces by default. Older weeks are still computed and can be
// requested explicitly.
const DefaultWeeklyWindow = 12

// WeekBucket accumulates one fiscal week of the stage funnel. The eight
// stage counters are mutually exclusive except Ordered (every record) and
// Shipped/Backordered (independent facts layered on top).
type WeekBucket struct {
	FiscalYear int    `json:"fiscalYear"`
	FiscalWeek int    `json:"fiscalWeek"`
	Label      string `json:"label"`

	Ordered             int `json:"ordered"`
	Shipped             int `json:"shipped"`
	Delivered           int `json:"delivered"`
	Installed           int `json:"installed"`
	NotShipped          int `json:"notShipped"`
	NotShippedBackorder int `json:"notShippedBackorder"`
	Cancelled           int `json:"cancelled"`
	Unused              int `json:"unused"`
	Backordered         int `json:"backordered"`

	Quantity int             `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
	Revenue  decimal.Decimal `json:"revenue"`

	// Derived after accumulation.
	ShippedRate     float64 `json:"shippedRate"`
	DeliveredRate   float64 `json:"deliveredRate"`
	InstalledRate   float64 `json:"installedRate"`
	CompletionRate  float64 `json:"completionRate"`
	AvgDeliveryDays float64 `json:"avgDeliveryDays"`
}

// WeeklyAnalysis is the windowed bucket series plus funnel conversion
// rates pooled across the surfaced weeks.
type WeeklyAnalysis struct {
	Weeks      []WeekBucket `json:"weeks"`
	TotalWeeks int          `json:"totalWeeks"`
	WindowSize int          `json:"windowSize"`

	PooledShippedRate   float64 `json:"pooledShippedRate"`
	PooledDeliveredRate float64 `json:"pooledDeliveredRate"`
	PooledInstalledRate float64 `json:"pooledInstalledRate"`
}

// AnalyzeWeekly buckets records by fiscal week of their order date and
// derives conversion and completion rates. Records without an order date
// cannot be placed in a week and are skipped. windowWeeks <= 0 falls back
// to DefaultWeeklyWindow. Buckets come back sorted ascending by week key;
// the analysis is recomputed from scratch on every call.
func AnalyzeWeekly(records []partsorder.Record, cal fiscal.Calendar, windowWeeks int) WeeklyAnalysis {
	if windowWeeks <= 0 {
		windowWeeks = DefaultWeeklyWindow
	}

	type weekKey struct{ year, week int }
	buckets := make(map[weekKey]*WeekBucket)
	deliveryDays := make(map[weekKey][]int)

	for _, rec := range records {
		if rec.PartOrderDate.IsZero() {
			continue
		}

		year, week := cal.Key(rec.PartOrderDate)
		key := weekKey{year, week}
		b := buckets[key]
		if b == nil {
			b = &WeekBucket{
				FiscalYear: year,
				FiscalWeek: week,
				Label:      fiscal.WeekLabel(year, week),
				Cost:       decimal.Zero,
				Revenue:    decimal.Zero,
			}
			buckets[key] = b
		}

		// Every record counts as ordered.
		b.Ordered++
		b.Quantity += rec.PartOrderQuantity
		b.Cost = b.Cost.Add(rec.LineCost())
		b.Revenue = b.Revenue.Add(rec.LineValue())

		// Exactly one terminal stage per record.
		switch rec.ServicePartStatusCode {
		case partsorder.StatusFulfilled:
			b.Delivered++
			if days, ok := rec.DeliveryDays(); ok {
				deliveryDays[key] = append(deliveryDays[key], days)
			}
		case partsorder.StatusInstalled:
			b.Installed++
			if days, ok := rec.DeliveryDays(); ok {
				deliveryDays[key] = append(deliveryDays[key], days)
			}
		case partsorder.StatusVoided:
			b.Cancelled++
		case partsorder.StatusUnused:
			b.Unused++
		default:
			if rec.IsBackordered() {
				b.NotShippedBackorder++
			} else {
				b.NotShipped++
			}
		}

		// Independent facts, not exclusive with the stages above.
		if rec.IsShipped() {
			b.Shipped++
		}
		if rec.IsBackordered() {
			b.Backordered++
		}
	}

	keys := make([]weekKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].week < keys[j].week
	})

	analysis := WeeklyAnalysis{
		Weeks:      []WeekBucket{},
		TotalWeeks: len(keys),
		WindowSize: windowWeeks,
	}

	if len(keys) > windowWeeks {
		keys = keys[len(keys)-windowWeeks:]
	}

	pooledOrdered, pooledShipped, pooledDelivered, pooledInstalled := 0, 0, 0, 0
	for _, k := range keys {
		b := buckets[k]
		reached := b.Delivered + b.Installed
		b.ShippedRate = Ratio(b.Shipped, b.Ordered)
		b.DeliveredRate = Ratio(reached, b.Shipped)
		b.InstalledRate = Ratio(b.Installed, reached)
		b.CompletionRate = Ratio(b.Installed, b.Ordered)
		b.AvgDeliveryDays = Mean(deliveryDays[k])

		pooledOrdered += b.Ordered
		pooledShipped += b.Shipped
		pooledDelivered += reached
		pooledInstalled += b.Installed

		analysis.Weeks = append(analysis.Weeks, *b)
	}

	analysis.PooledShippedRate = Ratio(pooledShipped, pooledOrdered)
	analysis.PooledDeliveredRate = Ratio(pooledDelivered, pooledShipped)
	analysis.PooledInstalledRate = Ratio(pooledInstalled, pooledDelivered)

	return analysis
}
