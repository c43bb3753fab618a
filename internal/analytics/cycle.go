package analytics

import (
	"time"

	"opsboard/internal/partsorder"
)

// Performance tiers for stage timing.
const (
	TierExcellent      = "excellent"
	TierGood           = "good"
	TierNeedsAttention = "needs-attention"
)

// goodTierFactor stretches a stage target to its "good" ceiling:
// anything within 1.67x target is still acceptable.
const goodTierFactor = 1.67

// Target averages, in days, per funnel stage.
const (
	TargetOrderToShipDays     = 2.0
	TargetShipToDeliveryDays  = 3.0
	TargetOrderToDeliveryDays = 5.0
)

// Outlier bounds for stage durations. Feed data quality varies; anything
// outside [MinDays, MaxDays] is discarded before averaging.
const (
	DefaultMinCycleDays = 0
	DefaultMaxCycleDays = 14
)

// StageTiming is the measured average for one stage transition with its
// performance tier.
type StageTiming struct {
	Stage       string  `json:"stage"`
	TargetDays  float64 `json:"targetDays"`
	AverageDays float64 `json:"averageDays"`
	MedianDays  float64 `json:"medianDays"`
	SampleSize  int     `json:"sampleSize"`
	Tier        string  `json:"tier"`
}

// EADCoverage reports how many records carry an estimated delivery date.
// This is a data-quality signal, surfaced apart from performance numbers.
type EADCoverage struct {
	TotalRecords    int     `json:"totalRecords"`
	MissingCount    int     `json:"missingCount"`
	CoveragePercent float64 `json:"coveragePercent"`
}

// InstallationMetrics characterizes the delivery-to-installation gap. The
// feed has no true next-scheduled-visit field, so these figures are
// derived from delivered-order counts; Estimated stays true to keep that
// visible in every output.
type InstallationMetrics struct {
	Estimated             bool    `json:"estimated"`
	DeliveredCount        int     `json:"deliveredCount"`
	InstalledCount        int     `json:"installedCount"`
	AwaitingInstallation  int     `json:"awaitingInstallation"`
	InstallConversionRate float64 `json:"installConversionRate"`
}

// CycleTimeReport bundles stage timing, EAD coverage and installation
// workflow metrics.
type CycleTimeReport struct {
	Stages       []StageTiming       `json:"stages"`
	EADCoverage  EADCoverage         `json:"eadCoverage"`
	Installation InstallationMetrics `json:"installation"`
}

// CycleAnalyzer computes stage-to-stage timing with configurable outlier
// bounds.
type CycleAnalyzer struct {
	MinDays int
	MaxDays int
}

// NewCycleAnalyzer returns an analyzer with the default outlier window.
func NewCycleAnalyzer() CycleAnalyzer {
	return CycleAnalyzer{MinDays: DefaultMinCycleDays, MaxDays: DefaultMaxCycleDays}
}

// Analyze builds the cycle-time report for records. Empty input produces
// a zero-valued report.
func (a CycleAnalyzer) Analyze(records []partsorder.Record) CycleTimeReport {
	var orderToShip, shipToDelivery, orderToDelivery []int

	missingEAD := 0
	delivered := 0
	installed := 0

	for _, rec := range records {
		if rec.EstimatedDeliveryDate.IsZero() {
			missingEAD++
		}

		switch rec.ServicePartStatusCode {
		case partsorder.StatusFulfilled:
			delivered++
		case partsorder.StatusInstalled:
			delivered++
			installed++
		}

		if !rec.PartOrderDate.IsZero() && !rec.ShipDate.IsZero() {
			if d := daysBetween(rec.PartOrderDate, rec.ShipDate); a.inBounds(d) {
				orderToShip = append(orderToShip, d)
			}
		}
		if !rec.ShipDate.IsZero() && !rec.ActualDeliveryDate.IsZero() {
			if d := daysBetween(rec.ShipDate, rec.ActualDeliveryDate); a.inBounds(d) {
				shipToDelivery = append(shipToDelivery, d)
			}
		}
		if d, ok := rec.DeliveryDays(); ok && a.inBounds(d) {
			orderToDelivery = append(orderToDelivery, d)
		}
	}

	report := CycleTimeReport{
		Stages: []StageTiming{
			stageTiming("order-to-ship", TargetOrderToShipDays, orderToShip),
			stageTiming("ship-to-delivery", TargetShipToDeliveryDays, shipToDelivery),
			stageTiming("order-to-delivery", TargetOrderToDeliveryDays, orderToDelivery),
		},
		EADCoverage: EADCoverage{
			TotalRecords:    len(records),
			MissingCount:    missingEAD,
			CoveragePercent: Percent(len(records)-missingEAD, len(records)),
		},
		Installation: InstallationMetrics{
			Estimated:             true,
			DeliveredCount:        delivered,
			InstalledCount:        installed,
			AwaitingInstallation:  delivered - installed,
			InstallConversionRate: Percent(installed, delivered),
		},
	}

	return report
}

func (a CycleAnalyzer) inBounds(days int) bool {
	return days >= a.MinDays && days <= a.MaxDays
}

func stageTiming(stage string, target float64, samples []int) StageTiming {
	st := StageTiming{
		Stage:      stage,
		TargetDays: target,
		SampleSize: len(samples),
		Tier:       TierExcellent,
	}
	if len(samples) == 0 {
		return st
	}

	st.AverageDays = Mean(samples)
	st.MedianDays = MedianDiscrete(samples)

	switch {
	case st.AverageDays <= target:
		st.Tier = TierExcellent
	case st.AverageDays <= target*goodTierFactor:
		st.Tier = TierGood
	default:
		st.Tier = TierNeedsAttention
	}
	return st
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
