package payments

import (
	"encoding/json"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"server/internal/domain"
)

// maxRupees bounds donor input far below where the paise conversion could
// overflow int64.
const maxRupees = 1_000_000_000

// RupeesToPaise converts a donor-entered rupee amount to paise, rounding to
// the nearest paisa. Sub-paisa precision is deliberately lossy; callers must
// not assume an exact round-trip. Amounts below one rupee or above maxRupees
// are rejected.
func RupeesToPaise(amount json.Number) (int64, error) {
	v, err := amount.Float64()
	if err != nil {
		return 0, domain.Validationf("invalid amount: please provide a valid number")
	}
	if v < 1 {
		return 0, domain.Validationf("invalid amount: must be at least 1")
	}
	if v > maxRupees {
		return 0, domain.Validationf("invalid amount: exceeds the maximum accepted value")
	}
	return int64(math.Round(v * 100)), nil
}

var inrPrinter = message.NewPrinter(language.English)

// FormatINR renders a paise amount as a human-readable rupee string for
// logs and display fields.
func FormatINR(paise int64) string {
	return inrPrinter.Sprint(currency.Symbol(currency.INR.Amount(float64(paise) / 100)))
}
