package analytics

import (
	"time"

	"opsboard/internal/partsorder"
)

// Escalation tiers and their days-past-due thresholds.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"

	mediumThresholdDays = 3
	highThresholdDays   = 7
)

// Issue categories.
const (
	IssueOverdue     = "overdue"
	IssueCancelled   = "cancelled"
	IssueBackordered = "backordered"
)

// TimelineEvent is one communication touchpoint that should have
// occurred by a given day past due.
type TimelineEvent struct {
	DayOffset int    `json:"dayOffset"`
	Audience  string `json:"audience"`
	Action    string `json:"action"`
}

// IssueRecord is one problem order with its escalation classification
// and the deterministic communication timeline for its age.
type IssueRecord struct {
	ServiceOrderNumber string `json:"serviceOrderNumber"`
	SKU                string `json:"sku"`
	PartDescription    string `json:"partDescription"`
	Vendor             string `json:"vendor"`
	PlanningArea       string `json:"planningArea"`
	StatusCode         string `json:"statusCode"`

	Category       string          `json:"category"`
	DaysPastDue    int             `json:"daysPastDue"`
	EscalationTier string          `json:"escalationTier"`
	Timeline       []TimelineEvent `json:"timeline"`
}

// EscalationTier classifies days past due against the 3/7-day
// thresholds.
func EscalationTier(daysPastDue int) string {
	switch {
	case daysPastDue > highThresholdDays:
		return TierHigh
	case daysPastDue > mediumThresholdDays:
		return TierMedium
	default:
		return TierLow
	}
}

// communicationPlan is the full escalation ladder. A record's timeline is
// the prefix whose offsets fall within its days past due.
var communicationPlan = []TimelineEvent{
	{DayOffset: 0, Audience: "vendor", Action: "delay acknowledged, revised ETA requested"},
	{DayOffset: 1, Audience: "customer", Action: "delay notice sent"},
	{DayOffset: 3, Audience: "vendor", Action: "follow-up on revised ETA"},
	{DayOffset: 5, Audience: "customer", Action: "updated delivery window communicated"},
	{DayOffset: 7, Audience: "vendor", Action: "escalated to vendor account manager"},
	{DayOffset: 10, Audience: "operations", Action: "alternate sourcing review opened"},
}

// CommunicationTimeline returns the touchpoints due for an order that is
// daysPastDue old. It is a pure function: same input, same events, no
// side effects. Non-positive input yields an empty timeline.
func CommunicationTimeline(daysPastDue int) []TimelineEvent {
	events := []TimelineEvent{}
	if daysPastDue <= 0 {
		return events
	}
	for _, e := range communicationPlan {
		if e.DayOffset <= daysPastDue {
			events = append(events, e)
		}
	}
	return events
}

// DeliveryIssues scans records for overdue, cancelled and backordered
// orders and classifies each. A record lands in exactly one category;
// overdue wins over backordered so an aging backorder escalates on its
// own days past due.
func DeliveryIssues(records []partsorder.Record, now time.Time) []IssueRecord {
	issues := []IssueRecord{}

	for _, rec := range records {
		var category string
		daysPastDue := 0

		switch {
		case rec.IsOverdue(now):
			category = IssueOverdue
			daysPastDue = daysBetween(rec.EstimatedDeliveryDate, now)
		case rec.IsCancelled():
			category = IssueCancelled
		case rec.IsBackordered() && !rec.IsDelivered():
			category = IssueBackordered
			if !rec.EstimatedDeliveryDate.IsZero() && rec.EstimatedDeliveryDate.Before(now) {
				daysPastDue = daysBetween(rec.EstimatedDeliveryDate, now)
			}
		default:
			continue
		}

		issues = append(issues, IssueRecord{
			ServiceOrderNumber: rec.ServiceOrderNumber,
			SKU:                rec.SKU,
			PartDescription:    rec.PartDescription,
			Vendor:             rec.Vendor,
			PlanningArea:       rec.PlanningArea,
			StatusCode:         rec.ServicePartStatusCode,
			Category:           category,
			DaysPastDue:        daysPastDue,
			EscalationTier:     EscalationTier(daysPastDue),
			Timeline:           CommunicationTimeline(daysPastDue),
		})
	}

	return issues
}
