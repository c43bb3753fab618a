package query

import (
	"sort"
	"strings"
	"time"

	"opsboard/internal/analytics"
	"opsboard/internal/fiscal"
	"opsboard/internal/partsorder"
)

// OrderFilters narrows the record collection for listing and reporting.
// Zero values mean "no constraint".
type OrderFilters struct {
	Status       string // delivered | pending | cancelled
	Vendor       string
	Appliance    string
	Brand        string
	PlanningArea string
	OverdueOnly  bool
}

// OrderPage is one page of filtered records. Total counts every match,
// not just the page returned.
type OrderPage struct {
	Items []partsorder.Record `json:"items"`
	Total int                 `json:"total"`
}

// Histogram bucket boundaries for delivery days: 0-1, 2-3, 4-5, 6-7, 8+.
var histogramBuckets = []struct {
	label string
	max   int
}{
	{"0-1", 1},
	{"2-3", 3},
	{"4-5", 5},
	{"6-7", 7},
	{"8+", 1 << 30},
}

// HistogramBin is one delivery-day bucket of the vendor report.
type HistogramBin struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// VendorReport is the delivery-performance report: per-vendor on-time
// rates over the filtered records plus a delivery-day histogram.
type VendorReport struct {
	Vendors   []analytics.VendorPerformance `json:"vendors"`
	Histogram []HistogramBin                `json:"histogram"`
}

// Service is the external query surface over the snapshot cache. All of
// its reads are pure functions of the current snapshot; state lives only
// in the cache.
type Service struct {
	cache *Cache
	cal   fiscal.Calendar
	cycle analytics.CycleAnalyzer
	now   func() time.Time
}

// NewService wires the query surface. A nil clock uses time.Now.
func NewService(cache *Cache, cal fiscal.Calendar, cycle analytics.CycleAnalyzer, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{cache: cache, cal: cal, cycle: cycle, now: clock}
}

// ListOrders returns the filtered records with offset/limit pagination.
// An out-of-range offset yields an empty page with the true total.
func (s *Service) ListOrders(filters OrderFilters, offset, limit int) OrderPage {
	matched := s.filter(filters)

	page := OrderPage{Items: []partsorder.Record{}, Total: len(matched)}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}
	if offset >= len(matched) {
		return page
	}

	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	page.Items = matched[offset:end]
	return page
}

// GetSummary returns the cached summary snapshot.
func (s *Service) GetSummary() analytics.Summary {
	return s.cache.Get().Summary
}

// GetVendorPerformance builds the delivery-performance report over the
// filtered records, sorted by sortBy ("vendor", "rate" or "delivered")
// in sortOrder ("asc" or "desc").
func (s *Service) GetVendorPerformance(filters OrderFilters, sortBy, sortOrder string) VendorReport {
	matched := s.filter(filters)
	summary := analytics.Summarize(matched, s.now())

	report := VendorReport{
		Vendors:   summary.VendorPerformance,
		Histogram: deliveryHistogram(matched),
	}
	if report.Vendors == nil {
		report.Vendors = []analytics.VendorPerformance{}
	}

	desc := strings.EqualFold(sortOrder, "desc")
	sort.SliceStable(report.Vendors, func(i, j int) bool {
		a, b := report.Vendors[i], report.Vendors[j]
		var less bool
		switch strings.ToLower(sortBy) {
		case "rate":
			less = a.OnTimeRate < b.OnTimeRate
		case "delivered":
			less = a.TotalDelivered < b.TotalDelivered
		default:
			less = a.Vendor < b.Vendor
		}
		if desc {
			return !less && a != b
		}
		return less
	})

	return report
}

// GetDeliveryIssues returns the classified problem orders with
// escalation tiers and communication timelines.
func (s *Service) GetDeliveryIssues() []analytics.IssueRecord {
	return analytics.DeliveryIssues(s.cache.Get().Dataset.Records, s.now())
}

// GetWeeklyAnalysis returns the fiscal-week funnel over the trailing
// windowWeeks weeks.
func (s *Service) GetWeeklyAnalysis(windowWeeks int) analytics.WeeklyAnalysis {
	return analytics.AnalyzeWeekly(s.cache.Get().Dataset.Records, s.cal, windowWeeks)
}

// GetCycleTimeAnalysis returns the stage-timing and EAD-coverage report.
func (s *Service) GetCycleTimeAnalysis() analytics.CycleTimeReport {
	return s.cycle.Analyze(s.cache.Get().Dataset.Records)
}

// GetDailyAnalysis returns calendar-day buckets over the trailing
// daysBack window.
func (s *Service) GetDailyAnalysis(daysBack int) analytics.DailyAnalysis {
	return analytics.AnalyzeDaily(s.cache.Get().Dataset.Records, s.now(), daysBack)
}

// RefreshCache invalidates the snapshot and returns the summary of the
// freshly rebuilt one.
func (s *Service) RefreshCache() analytics.Summary {
	s.cache.Invalidate()
	return s.cache.Get().Summary
}

func (s *Service) filter(filters OrderFilters) []partsorder.Record {
	snap := s.cache.Get()
	now := s.now()

	matched := make([]partsorder.Record, 0, len(snap.Dataset.Records))
	for _, rec := range snap.Dataset.Records {
		if !matchesStatus(rec, filters.Status) {
			continue
		}
		if filters.Vendor != "" && !strings.EqualFold(rec.Vendor, filters.Vendor) {
			continue
		}
		if filters.Appliance != "" && !strings.EqualFold(rec.Appliance, filters.Appliance) {
			continue
		}
		if filters.Brand != "" && !strings.EqualFold(rec.ApplianceBrand, filters.Brand) {
			continue
		}
		if filters.PlanningArea != "" && !strings.EqualFold(rec.PlanningArea, filters.PlanningArea) {
			continue
		}
		if filters.OverdueOnly && !rec.IsOverdue(now) {
			continue
		}
		matched = append(matched, rec)
	}
	return matched
}

func matchesStatus(rec partsorder.Record, status string) bool {
	switch strings.ToLower(status) {
	case "":
		return true
	case analytics.BucketDelivered:
		return rec.IsDelivered()
	case analytics.BucketPending:
		return rec.IsPending()
	case analytics.BucketCancelled:
		return rec.IsCancelled()
	default:
		// Unknown filter values match nothing rather than everything.
		return false
	}
}

func deliveryHistogram(records []partsorder.Record) []HistogramBin {
	bins := make([]HistogramBin, len(histogramBuckets))
	for i, b := range histogramBuckets {
		bins[i] = HistogramBin{Label: b.label}
	}

	for _, rec := range records {
		days, ok := rec.DeliveryDays()
		if !ok || !rec.IsDelivered() || days < 0 {
			continue
		}
		for i, b := range histogramBuckets {
			if days <= b.max {
				bins[i].Count++
				break
			}
		}
	}
	return bins
}
