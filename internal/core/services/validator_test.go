package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
)

// TestFinancialValidator_NonBalanceSheetPasses tests that unrecognised
// table types pass unconditionally
func TestFinancialValidator_NonBalanceSheetPasses(t *testing.T) {
	v := NewFinancialValidator()

	tests := []struct {
		name string
		rec  domain.Record
	}{
		{"statement of operations", domain.Record{domain.FieldTableType: "Statement of Operations"}},
		{"schedule of investments", domain.Record{domain.FieldTableType: "Schedule of Investments"}},
		{"no table type", domain.Record{"some_field": "value"}},
		{"empty record", domain.Record{}},
		{"non-string table type", domain.Record{domain.FieldTableType: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := v.Validate(tt.rec)
			assert.True(t, outcome.Valid)
			assert.Empty(t, outcome.Reason)
		})
	}
}

// TestFinancialValidator_BalancedSheetPasses tests a consistent balance
// sheet with comma-formatted string amounts
func TestFinancialValidator_BalancedSheetPasses(t *testing.T) {
	v := NewFinancialValidator()

	outcome := v.Validate(domain.Record{
		domain.FieldTableType:        "Balance Sheet",
		domain.FieldTotalAssets:      "1,000,000",
		domain.FieldTotalLiabilities: "400,000",
		domain.FieldNetAssets:        "600,000",
	})

	assert.True(t, outcome.Valid)
}

// TestFinancialValidator_MathError tests that an imbalance produces a
// failing outcome whose reason embeds the operands and the difference
func TestFinancialValidator_MathError(t *testing.T) {
	v := NewFinancialValidator()

	outcome := v.Validate(domain.Record{
		domain.FieldTableType:        "Balance Sheet",
		domain.FieldTotalAssets:      1000.0,
		domain.FieldTotalLiabilities: 500.0,
		domain.FieldNetAssets:        400.0,
	})

	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Reason, "Math Error")
	assert.Contains(t, outcome.Reason, "1000")
	assert.Contains(t, outcome.Reason, "500")
	assert.Contains(t, outcome.Reason, "400")
	assert.Contains(t, outcome.Reason, "100")
}

// TestFinancialValidator_ToleranceBoundary tests the rounding tolerance
func TestFinancialValidator_ToleranceBoundary(t *testing.T) {
	v := NewFinancialValidator()

	within := v.Validate(domain.Record{
		domain.FieldTableType:        "Balance Sheet",
		domain.FieldTotalAssets:      1000.0,
		domain.FieldTotalLiabilities: 600.0,
		domain.FieldNetAssets:        399.0, // off by exactly 1.0
	})
	assert.True(t, within.Valid)

	beyond := v.Validate(domain.Record{
		domain.FieldTableType:        "Balance Sheet",
		domain.FieldTotalAssets:      1000.0,
		domain.FieldTotalLiabilities: 600.0,
		domain.FieldNetAssets:        398.5,
	})
	assert.False(t, beyond.Valid)
}

// TestFinancialValidator_TypeMatching tests the case-insensitive substring
// match over table types
func TestFinancialValidator_TypeMatching(t *testing.T) {
	v := NewFinancialValidator()

	// Imbalanced figures so matching types fail and non-matching pass.
	base := domain.Record{
		domain.FieldTotalAssets:      100.0,
		domain.FieldTotalLiabilities: 10.0,
		domain.FieldNetAssets:        10.0,
	}

	tests := []struct {
		tableType string
		checked   bool
	}{
		{"Balance Sheet", true},
		{"BALANCE SHEET", true},
		{"Consolidated Balance Sheets", true},
		{"Statement of Assets and Liabilities", true},
		{"STATEMENT OF ASSETS AND LIABILITIES", true},
		{"Statement of Cash Flows", false},
		{"Income Statement", false},
	}

	for _, tt := range tests {
		t.Run(tt.tableType, func(t *testing.T) {
			rec := base.Clone()
			rec[domain.FieldTableType] = tt.tableType
			outcome := v.Validate(rec)
			assert.Equal(t, !tt.checked, outcome.Valid)
		})
	}
}

// TestFinancialValidator_CoercionError tests that unparseable amounts are
// rejected with a coercion reason, distinct from the math reason
func TestFinancialValidator_CoercionError(t *testing.T) {
	v := NewFinancialValidator()

	tests := []struct {
		name  string
		value any
	}{
		{"non-numeric string", "N/A"},
		{"null value", nil},
		{"nested object", map[string]any{"amount": 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := v.Validate(domain.Record{
				domain.FieldTableType:        "Balance Sheet",
				domain.FieldTotalAssets:      tt.value,
				domain.FieldTotalLiabilities: 400.0,
				domain.FieldNetAssets:        600.0,
			})
			assert.False(t, outcome.Valid)
			assert.Contains(t, outcome.Reason, "Coercion Error")
			assert.NotContains(t, outcome.Reason, "Math Error")
		})
	}
}

// TestFinancialValidator_MissingFields tests that absent balance fields
// are rejected rather than defaulted to zero
func TestFinancialValidator_MissingFields(t *testing.T) {
	v := NewFinancialValidator()

	outcome := v.Validate(domain.Record{
		domain.FieldTableType:   "Balance Sheet",
		domain.FieldTotalAssets: 1000.0,
	})

	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Reason, "Missing Fields")
	assert.Contains(t, outcome.Reason, domain.FieldTotalLiabilities)
	assert.Contains(t, outcome.Reason, domain.FieldNetAssets)
	assert.NotContains(t, outcome.Reason, "Math Error")
}

// TestFinancialValidator_NumericTypes tests coercion of the value types a
// JSON decoder can surface
func TestFinancialValidator_NumericTypes(t *testing.T) {
	v := NewFinancialValidator()

	tests := []struct {
		name   string
		assets any
	}{
		{"float64", 1000.0},
		{"int", 1000},
		{"int64", int64(1000)},
		{"json.Number", json.Number("1000")},
		{"string with commas", "1,000"},
		{"string with spaces", " 1000 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := v.Validate(domain.Record{
				domain.FieldTableType:        "Balance Sheet",
				domain.FieldTotalAssets:      tt.assets,
				domain.FieldTotalLiabilities: 400.0,
				domain.FieldNetAssets:        600.0,
			})
			assert.True(t, outcome.Valid, outcome.Reason)
		})
	}
}

// TestFinancialValidator_Idempotent tests that validation has no side
// effects and yields identical outcomes on repeat
func TestFinancialValidator_Idempotent(t *testing.T) {
	v := NewFinancialValidator()

	rec := domain.Record{
		domain.FieldTableType:        "Balance Sheet",
		domain.FieldTotalAssets:      "1,000",
		domain.FieldTotalLiabilities: "500",
		domain.FieldNetAssets:        "400",
	}
	snapshot := rec.Clone()

	first := v.Validate(rec)
	second := v.Validate(rec)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, rec, "validation must not mutate the record")
	assert.Equal(t, "1,000", rec[domain.FieldTotalAssets], "commas must survive validation")
}
