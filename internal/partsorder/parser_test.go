package partsorder

import (
	"strings"
	"testing"
	"time"
)

func sampleLine(overrides map[int]string) string {
	fields := make([]string, SchemaColumns)
	defaults := map[int]string{
		colSKU:                    "SKU-100",
		colServiceOrderNumber:     "SO-9001",
		colPartSequenceNumber:     "1",
		colAppliance:              "Washer",
		colApplianceBrand:         "Kenmore",
		colApplianceModel:         "WM-500",
		colPartDescription:        "Drain pump",
		colPartOrderDate:          "2025-01-01",
		colPartOrderQuantity:      "1",
		colPartSourceCode:         "DC",
		colPartOrderStatusCode:    "S",
		colServicePartStatusCode:  "F",
		colShipDate:               "2025-01-02",
		colEstimatedDeliveryDate:  "2025-01-05",
		colActualDeliveryDate:     "2025-01-04",
		colDeliveryTrackingNumber: "1Z999",
		colBackorderFlag:          "N",
		colUnitCostPrice:          "12.50",
		colUnitSellPrice:          "24.99",
		colVendor:                 "Acme Parts",
		colDistrictName:           "North",
		colPlanningArea:           "PA-1",
		colProgramType:            "HomeWarranty",
		colCustomerType:           "Residential",
		colCallType:               "Repair",
	}
	for idx, v := range defaults {
		fields[idx] = v
	}
	for idx, v := range overrides {
		fields[idx] = v
	}
	return strings.Join(fields, ",")
}

func TestParseLineFullRow(t *testing.T) {
	p := NewParser()

	rec, ok := p.ParseLine(sampleLine(nil))
	if !ok {
		t.Fatal("expected row to parse")
	}

	if rec.SKU != "SKU-100" || rec.Vendor != "Acme Parts" {
		t.Errorf("string fields mismatch: %+v", rec)
	}
	if rec.PartOrderQuantity != 1 {
		t.Errorf("expected quantity 1, got %d", rec.PartOrderQuantity)
	}
	if rec.PartOrderDate != time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("unexpected order date %v", rec.PartOrderDate)
	}
	if !rec.UnitSellPrice.Equal(mustDecimal(t, "24.99")) {
		t.Errorf("unexpected sell price %s", rec.UnitSellPrice)
	}
}

func TestParseLineRejectsShortRow(t *testing.T) {
	p := NewParser()

	if _, ok := p.ParseLine("a,b,c"); ok {
		t.Error("expected short row to be rejected")
	}

	// The threshold is configurable; a lower minimum accepts the same row.
	p.MinFields = 3
	if _, ok := p.ParseLine("a,b,c"); !ok {
		t.Error("expected row to pass with lowered MinFields")
	}
}

func TestParseLineFieldDefaults(t *testing.T) {
	p := NewParser()

	rec, ok := p.ParseLine(sampleLine(map[int]string{
		colPartOrderQuantity:  "not-a-number",
		colUnitCostPrice:      "free",
		colActualDeliveryDate: "13/45/2025",
	}))
	if !ok {
		t.Fatal("field coercion failures must not reject the row")
	}

	if rec.PartOrderQuantity != 0 {
		t.Errorf("bad quantity should default to 0, got %d", rec.PartOrderQuantity)
	}
	if !rec.UnitCostPrice.IsZero() {
		t.Errorf("bad money should default to 0, got %s", rec.UnitCostPrice)
	}
	if !rec.ActualDeliveryDate.IsZero() {
		t.Errorf("bad date should be absent, got %v", rec.ActualDeliveryDate)
	}
}

func TestParseLineNegativeQuantityClamped(t *testing.T) {
	p := NewParser()

	rec, ok := p.ParseLine(sampleLine(map[int]string{colPartOrderQuantity: "-4"}))
	if !ok {
		t.Fatal("expected row to parse")
	}
	if rec.PartOrderQuantity != 0 {
		t.Errorf("negative quantity should clamp to 0, got %d", rec.PartOrderQuantity)
	}
}

func TestParseLineSlashDateFormat(t *testing.T) {
	p := NewParser()

	rec, ok := p.ParseLine(sampleLine(map[int]string{colPartOrderDate: "01/15/2025"}))
	if !ok {
		t.Fatal("expected row to parse")
	}
	if rec.PartOrderDate != time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("unexpected date %v", rec.PartOrderDate)
	}
}

func TestSplitFieldsQuotedDelimiters(t *testing.T) {
	// Round-trip: quoted fields with embedded delimiters come back intact.
	values := []string{"plain", "with, comma", "trailing", "a, b, and c"}
	line := `plain,"with, comma",trailing,"a, b, and c"`

	fields := SplitFields(line, ',')
	if len(fields) != len(values) {
		t.Fatalf("expected %d fields, got %d: %v", len(values), len(fields), fields)
	}
	for i, want := range values {
		if fields[i] != want {
			t.Errorf("field %d: expected %q, got %q", i, want, fields[i])
		}
	}
}

func TestSplitFieldsUnterminatedQuote(t *testing.T) {
	fields := SplitFields(`a,"b,c`, ',')
	if len(fields) != 2 {
		t.Fatalf("unterminated quote should swallow the delimiter, got %v", fields)
	}
	if fields[1] != "b,c" {
		t.Errorf("expected %q, got %q", "b,c", fields[1])
	}
}

func TestParseLineIgnoresTrailingColumns(t *testing.T) {
	p := NewParser()

	line := sampleLine(nil) + ",extra1,extra2,extra3"
	rec, ok := p.ParseLine(line)
	if !ok {
		t.Fatal("rows wider than the schema must still parse")
	}
	if rec.CallType != "Repair" {
		t.Errorf("unexpected callType %q", rec.CallType)
	}
}
