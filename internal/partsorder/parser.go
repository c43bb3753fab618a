package partsorder

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column indexes of the unified 25-column feed schema.
const (
	colSKU = iota
	colServiceOrderNumber
	colPartSequenceNumber
	colAppliance
	colApplianceBrand
	colApplianceModel
	colPartDescription
	colPartOrderDate
	colPartOrderQuantity
	colPartSourceCode
	colPartOrderStatusCode
	colServicePartStatusCode
	colShipDate
	colEstimatedDeliveryDate
	colActualDeliveryDate
	colDeliveryTrackingNumber
	colBackorderFlag
	colUnitCostPrice
	colUnitSellPrice
	colVendor
	colDistrictName
	colPlanningArea
	colProgramType
	colCustomerType
	colCallType

	// SchemaColumns is the number of positional fields a row must carry.
	SchemaColumns = iota
)

// Parser turns raw delimited lines into Records. MinFields defaults to
// the full schema width; tests lower it to exercise the rejection path.
type Parser struct {
	Delimiter byte
	MinFields int
}

// NewParser returns a Parser for the standard comma-delimited feed.
func NewParser() *Parser {
	return &Parser{Delimiter: ',', MinFields: SchemaColumns}
}

// ParseLine parses one data row. It returns (record, true) on success and
// (zero, false) when the row has fewer than MinFields positional fields.
// Field-level coercion failures never reject the row: numbers default to
// zero and unparsable dates are treated as absent.
func (p *Parser) ParseLine(line string) (Record, bool) {
	fields := SplitFields(line, p.Delimiter)
	if len(fields) < p.MinFields {
		return Record{}, false
	}

	get := func(idx int) string {
		if idx < len(fields) {
			return strings.TrimSpace(fields[idx])
		}
		return ""
	}

	rec := Record{
		SKU:                    get(colSKU),
		ServiceOrderNumber:     get(colServiceOrderNumber),
		PartSequenceNumber:     get(colPartSequenceNumber),
		Appliance:              get(colAppliance),
		ApplianceBrand:         get(colApplianceBrand),
		ApplianceModel:         get(colApplianceModel),
		PartDescription:        get(colPartDescription),
		PartOrderDate:          parseDate(get(colPartOrderDate)),
		PartOrderQuantity:      parseQuantity(get(colPartOrderQuantity)),
		PartSourceCode:         get(colPartSourceCode),
		PartOrderStatusCode:    strings.ToUpper(get(colPartOrderStatusCode)),
		ServicePartStatusCode:  strings.ToUpper(get(colServicePartStatusCode)),
		ShipDate:               parseDate(get(colShipDate)),
		EstimatedDeliveryDate:  parseDate(get(colEstimatedDeliveryDate)),
		ActualDeliveryDate:     parseDate(get(colActualDeliveryDate)),
		DeliveryTrackingNumber: get(colDeliveryTrackingNumber),
		BackorderFlag:          get(colBackorderFlag),
		UnitCostPrice:          parseMoney(get(colUnitCostPrice)),
		UnitSellPrice:          parseMoney(get(colUnitSellPrice)),
		Vendor:                 get(colVendor),
		DistrictName:           get(colDistrictName),
		PlanningArea:           get(colPlanningArea),
		ProgramType:            get(colProgramType),
		CustomerType:           get(colCustomerType),
		CallType:               get(colCallType),
	}

	return rec, true
}

// SplitFields tokenizes one delimited line with quote awareness: a quote
// character toggles the in-quotes state, and the delimiter only splits
// when outside quotes. Quote characters themselves are not emitted.
func SplitFields(line string, delimiter byte) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '"':
			inQuotes = !inQuotes
		case c == delimiter && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, current.String())

	return fields
}

var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// parseDate coerces a date field. Unparsable or empty values come back as
// the zero time, which every downstream consumer treats as "absent".
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseQuantity(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseMoney(s string) decimal.Decimal {
	s = strings.TrimPrefix(s, "$")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
