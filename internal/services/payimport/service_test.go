package payimport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsorship-backend/internal/models"
)

func part(amount string) SplitPart {
	return SplitPart{Amount: decimal.RequireFromString(amount)}
}

func intPtr(n int) *int {
	return &n
}

func testRow(amount string, voucherCount *int) *models.ImportRow {
	return &models.ImportRow{
		Amount:       decimal.RequireFromString(amount),
		VoucherCount: voucherCount,
	}
}

func TestValidateSplit(t *testing.T) {
	original := decimal.NewFromInt(1000)

	testCases := []struct {
		name    string
		parts   []SplitPart
		wantErr string
	}{
		{"TwoPartsExact", []SplitPart{part("400"), part("600")}, ""},
		{"ThreeParts", []SplitPart{part("400"), part("300"), part("300")}, ""},
		{"FivePartsWithinTolerance", []SplitPart{part("200"), part("200"), part("200"), part("200"), part("200.01")}, ""},
		{"SumMismatch", []SplitPart{part("400"), part("300"), part("250")}, "expected 1000.00, actual 950.00"},
		{"ZeroParts", nil, "part count must be between 2 and 5, got 0"},
		{"OnePart", []SplitPart{part("1000")}, "part count must be between 2 and 5, got 1"},
		{"SixParts", []SplitPart{part("100"), part("100"), part("100"), part("100"), part("100"), part("500")}, "part count must be between 2 and 5, got 6"},
		{"NonPositivePart", []SplitPart{part("1000"), part("0")}, "part 2 amount must be positive"},
		{"NegativePart", []SplitPart{part("1100"), part("-100")}, "part 2 amount must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSplit(original, tc.parts)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var vErr ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestVoucherCount(t *testing.T) {
	unitPrice := decimal.NewFromInt(150)

	testCases := []struct {
		name     string
		amount   string
		override *int
		price    decimal.Decimal
		expected int
	}{
		{"DerivedFloor", "500", nil, unitPrice, 3},
		{"DerivedExact", "450", nil, unitPrice, 3},
		{"OverrideWins", "500", intPtr(8), unitPrice, 8},
		{"BelowUnitPriceFallsBackToOne", "100", nil, unitPrice, 1},
		{"UnknownPriceFallsBackToOne", "500", nil, decimal.Zero, 1},
		{"ZeroOverrideIgnored", "500", intPtr(0), unitPrice, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Service{voucherUnitPrice: tc.price}
			row := testRow(tc.amount, tc.override)
			assert.Equal(t, tc.expected, s.voucherCount(row))
		})
	}
}

func TestAppendNote(t *testing.T) {
	assert.Equal(t, "edited", appendNote("", "edited"))
	assert.Equal(t, "matched; edited", appendNote("matched", "edited"))
}

func TestParseErrorMessage(t *testing.T) {
	err := ParseError{Line: 7, Message: "invalid amount"}
	assert.Equal(t, "line 7: invalid amount", err.Error())
}
