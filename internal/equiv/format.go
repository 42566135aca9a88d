package equiv

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Thresholds for abbreviated large-number display.
const (
	// LargeNumberThreshold marks the switch to "~X.X million" format.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold marks the switch to "~X.X billion" format.
	BillionThreshold = 1_000_000_000
)

// printer is the locale-aware message printer for number formatting.
// English locale keeps thousand separators consistent across outputs.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatLarge formats large values with abbreviated notation: values
// at or above a billion as "~X.X billion", at or above a million as
// "~X.X million", and smaller values as comma-separated integers.
func FormatLarge(n float64) string {
	if n >= BillionThreshold {
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	}
	if n >= LargeNumberThreshold {
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	}
	return FormatNumber(int64(math.Round(n)))
}
