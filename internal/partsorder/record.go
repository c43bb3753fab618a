package partsorder

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Service part status codes as they appear in column 11 of the feed.
const (
	StatusFulfilled = "F"
	StatusInstalled = "I"
	StatusOpen      = "O"
	StatusUnused    = "U"
	StatusVoided    = "V"
)

// Order status codes (column 10). OrderStatusOrdered is the raw
// "just-ordered" code a row carries before any fulfillment event.
const (
	OrderStatusOrdered     = "O"
	OrderStatusShipped     = "S"
	OrderStatusBackordered = "B"
	OrderStatusCancelled   = "C"
)

// Record is one row of the parts-order feed, parsed against the
// fixed 25-column schema (see the column constants in parser.go).
type Record struct {
	SKU                string `json:"sku"`
	ServiceOrderNumber string `json:"serviceOrderNumber"`
	PartSequenceNumber string `json:"partSequenceNumber"`

	Appliance       string `json:"appliance"`
	ApplianceBrand  string `json:"applianceBrand"`
	ApplianceModel  string `json:"applianceModel"`
	PartDescription string `json:"partDescription"`

	PartOrderDate         time.Time `json:"partOrderDate"`
	PartOrderQuantity     int       `json:"partOrderQuantity"`
	PartSourceCode        string    `json:"partSourceCode"`
	PartOrderStatusCode   string    `json:"partOrderStatusCode"`
	ServicePartStatusCode string    `json:"servicePartStatusCode"`

	ShipDate               time.Time `json:"shipDate"`
	EstimatedDeliveryDate  time.Time `json:"estimatedDeliveryDate"`
	ActualDeliveryDate     time.Time `json:"actualDeliveryDate"`
	DeliveryTrackingNumber string    `json:"deliveryTrackingNumber"`
	BackorderFlag          string    `json:"backorderFlag"`

	UnitCostPrice decimal.Decimal `json:"unitCostPrice"`
	UnitSellPrice decimal.Decimal `json:"unitSellPrice"`

	Vendor       string `json:"vendor"`
	DistrictName string `json:"districtName"`
	PlanningArea string `json:"planningArea"`
	ProgramType  string `json:"programType"`
	CustomerType string `json:"customerType"`
	CallType     string `json:"callType"`
}

// IsDelivered reports whether the part reached the customer
// (fulfilled or installed).
func (r Record) IsDelivered() bool {
	return r.ServicePartStatusCode == StatusFulfilled || r.ServicePartStatusCode == StatusInstalled
}

// IsPending reports whether the order is still open.
func (r Record) IsPending() bool {
	return r.ServicePartStatusCode == StatusOpen
}

// IsCancelled reports whether the part ended up unused or voided.
func (r Record) IsCancelled() bool {
	return r.ServicePartStatusCode == StatusUnused || r.ServicePartStatusCode == StatusVoided
}

// IsBackordered merges the two encodings of the backorder fact: the
// boolean-like flag column and the order status code. They are OR'd so a
// row setting both still counts once.
func (r Record) IsBackordered() bool {
	switch strings.ToLower(strings.TrimSpace(r.BackorderFlag)) {
	case "y", "1", "true":
		return true
	}
	return r.PartOrderStatusCode == OrderStatusBackordered
}

// IsShipped reports whether the part has left the vendor: a tracking
// number exists and the order status has moved past the raw
// just-ordered code.
func (r Record) IsShipped() bool {
	return r.DeliveryTrackingNumber != "" && r.PartOrderStatusCode != OrderStatusOrdered
}

// IsOverdue reports whether an open order has blown past its promised
// delivery date. Rows without an estimate are never overdue.
func (r Record) IsOverdue(now time.Time) bool {
	return r.IsPending() && !r.EstimatedDeliveryDate.IsZero() && r.EstimatedDeliveryDate.Before(now)
}

// DeliveryDays returns the order-to-delivery duration in whole days and
// whether both endpoints were present.
func (r Record) DeliveryDays() (int, bool) {
	if r.PartOrderDate.IsZero() || r.ActualDeliveryDate.IsZero() {
		return 0, false
	}
	return int(r.ActualDeliveryDate.Sub(r.PartOrderDate).Hours() / 24), true
}

// LineValue is quantity times unit sell price.
func (r Record) LineValue() decimal.Decimal {
	return r.UnitSellPrice.Mul(decimal.NewFromInt(int64(r.PartOrderQuantity)))
}

// LineCost is quantity times unit cost price.
func (r Record) LineCost() decimal.Decimal {
	return r.UnitCostPrice.Mul(decimal.NewFromInt(int64(r.PartOrderQuantity)))
}
