package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
	"github.com/custodia-labs/fintab-cli/internal/core/ports/driven"
)

// Ensure FinancialValidator implements the interface.
var _ driven.RecordValidator = (*FinancialValidator)(nil)

// balanceTolerance is the maximum absolute rounding discrepancy accepted
// between total assets and liabilities plus net assets.
const balanceTolerance = 1.0

// balanceSheetMarkers identify table types subject to the balance check.
// Matching is a case-insensitive substring test.
var balanceSheetMarkers = []string{
	"balance sheet",
	"assets and liabilities",
}

// balanceFields are required on records of a balance-sheet type.
var balanceFields = []string{
	domain.FieldTotalAssets,
	domain.FieldTotalLiabilities,
	domain.FieldNetAssets,
}

// FinancialValidator checks extracted records for internal financial
// consistency. It is pure and stateless: the same record always yields the
// same outcome and the record is never mutated.
type FinancialValidator struct{}

// NewFinancialValidator creates a new financial validator.
func NewFinancialValidator() *FinancialValidator {
	return &FinancialValidator{}
}

// Validate applies the balance check to balance-sheet records.
// Records of any other table type pass unconditionally; classification is
// the model's job and only recognised types carry checkable arithmetic.
func (v *FinancialValidator) Validate(rec domain.Record) domain.ValidationOutcome {
	tableType, _ := rec[domain.FieldTableType].(string)
	if !isBalanceSheet(tableType) {
		return domain.Valid()
	}

	var missing []string
	for _, field := range balanceFields {
		if _, ok := rec[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return domain.Invalid(fmt.Sprintf(
			"Missing Fields: a balance sheet extraction must include %s.",
			strings.Join(missing, ", ")))
	}

	assets, err := coerceAmount(rec[domain.FieldTotalAssets])
	if err != nil {
		return coercionFailure(domain.FieldTotalAssets, rec[domain.FieldTotalAssets], err)
	}
	liabilities, err := coerceAmount(rec[domain.FieldTotalLiabilities])
	if err != nil {
		return coercionFailure(domain.FieldTotalLiabilities, rec[domain.FieldTotalLiabilities], err)
	}
	netAssets, err := coerceAmount(rec[domain.FieldNetAssets])
	if err != nil {
		return coercionFailure(domain.FieldNetAssets, rec[domain.FieldNetAssets], err)
	}

	diff := math.Abs(assets - (liabilities + netAssets))
	if diff > balanceTolerance {
		return domain.Invalid(fmt.Sprintf(
			"Math Error: Total Assets (%v) does not equal Liabilities (%v) + Net Assets (%v). Difference is %v.",
			formatAmount(assets), formatAmount(liabilities), formatAmount(netAssets), formatAmount(diff)))
	}

	return domain.Valid()
}

func isBalanceSheet(tableType string) bool {
	lowered := strings.ToLower(tableType)
	for _, marker := range balanceSheetMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func coercionFailure(field string, value any, err error) domain.ValidationOutcome {
	return domain.Invalid(fmt.Sprintf(
		"Coercion Error: could not convert %s value %q to a number: %v.",
		field, fmt.Sprint(value), err))
}

// coerceAmount converts a model-produced value to a float64. Strings may
// carry thousands-separator commas; JSON decoding may surface numbers as
// float64 or json.Number depending on the decoder.
func coerceAmount(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		return strconv.ParseFloat(cleaned, 64)
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

// formatAmount renders a float without a trailing .0 for whole numbers, so
// feedback reads like the filing figures the model saw.
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
