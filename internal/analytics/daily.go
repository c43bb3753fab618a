package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"opsboard/internal/partsorder"
)

// DefaultDailyWindow is the trailing-day window for daily analysis when
// the caller does not specify one.
const DefaultDailyWindow = 30

// DayBucket accumulates one calendar day of order activity, keyed by the
// order date.
type DayBucket struct {
	Date      string          `json:"date"`
	Ordered   int             `json:"ordered"`
	Shipped   int             `json:"shipped"`
	Delivered int             `json:"delivered"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DailyAnalysis is the day series over the trailing window, oldest day
// first. Days without activity are present with zero counts so charts
// render contiguous axes.
type DailyAnalysis struct {
	Days     []DayBucket `json:"days"`
	DaysBack int         `json:"daysBack"`
}

// AnalyzeDaily buckets orders by calendar day over the trailing daysBack
// window ending at now. daysBack <= 0 falls back to DefaultDailyWindow.
func AnalyzeDaily(records []partsorder.Record, now time.Time, daysBack int) DailyAnalysis {
	if daysBack <= 0 {
		daysBack = DefaultDailyWindow
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := today.AddDate(0, 0, -(daysBack - 1))

	byDay := make(map[string]*DayBucket)
	for _, rec := range records {
		if rec.PartOrderDate.IsZero() || rec.PartOrderDate.Before(windowStart) || rec.PartOrderDate.After(now) {
			continue
		}

		key := rec.PartOrderDate.Format("2006-01-02")
		b := byDay[key]
		if b == nil {
			b = &DayBucket{Date: key, Revenue: decimal.Zero}
			byDay[key] = b
		}

		b.Ordered++
		b.Revenue = b.Revenue.Add(rec.LineValue())
		if rec.IsShipped() {
			b.Shipped++
		}
		if rec.IsDelivered() {
			b.Delivered++
		}
		if rec.IsCancelled() {
			b.Cancelled++
		}
	}

	analysis := DailyAnalysis{Days: make([]DayBucket, 0, daysBack), DaysBack: daysBack}
	for d := windowStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if b, ok := byDay[key]; ok {
			analysis.Days = append(analysis.Days, *b)
		} else {
			analysis.Days = append(analysis.Days, DayBucket{Date: key, Revenue: decimal.Zero})
		}
	}

	return analysis
}
