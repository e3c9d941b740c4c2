// Package presentation is the seam to the excluded rendering layer: pure
// formatting and view-shaping over the data the core produces.
package presentation

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/koop46/crypto-prices/internal/domain"
)

var printer = message.NewPrinter(language.English)

// FormatPrice renders a price for display with thousands grouping. Standard
// precision is two fractional digits; high precision is six, used for
// sub-cent tokens. USD-like currencies get a symbol prefix, SEK-like a
// suffix token.
func FormatPrice(value float64, cur domain.Currency, highPrecision bool) string {
	var n string
	if highPrecision {
		n = printer.Sprintf("%.6f", value)
	} else {
		n = printer.Sprintf("%.2f", value)
	}
	if cur == domain.CurrencySEK {
		return n + " kr"
	}
	return "$" + n
}

// FormatMarketCap renders a USD market capitalization as a human-scaled
// magnitude string.
func FormatMarketCap(value float64) string {
	switch {
	case value >= 1e12:
		return printer.Sprintf("$%.2fT", value/1e12)
	case value >= 1e9:
		return printer.Sprintf("$%.2fB", value/1e9)
	case value >= 1e6:
		return printer.Sprintf("$%.2fM", value/1e6)
	case value >= 1e3:
		return printer.Sprintf("$%.2fK", value/1e3)
	default:
		return printer.Sprintf("$%.2f", value)
	}
}

// Ratio derives the AKT/SPICE price ratio from the USD legs. The second
// return is false when the bundle is absent or the SPICE price is zero.
func Ratio(b *domain.QuoteBundle) (float64, bool) {
	akt, ok := b.Price(domain.AssetAKT, domain.CurrencyUSD)
	if !ok {
		return 0, false
	}
	spice, ok := b.Price(domain.AssetSPICE, domain.CurrencyUSD)
	if !ok || spice == 0 {
		return 0, false
	}
	return akt / spice, true
}
