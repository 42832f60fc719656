package util

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is used when a record or caller supplies no currency code
const DefaultCurrency = "USD"

// fallbackSymbols is used when the currency code cannot be resolved by x/text
var fallbackSymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency formats an amount in the given ISO currency code using en-US conventions.
// Unknown codes fall back to a small symbol table (or the raw code) followed by the plain amount.
func FormatCurrency(amount float64, code string) (formatted string) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}

	defer func() {
		if r := recover(); r != nil {
			formatted = fallbackCurrency(amount, code)
		}
	}()

	unit, err := currency.ParseISO(code)
	if err != nil {
		return fallbackCurrency(amount, code)
	}

	scale, _ := currency.Standard.Rounding(unit)
	symbol := printer.Sprint(currency.NarrowSymbol(unit))
	digits := printer.Sprint(number.Decimal(math.Abs(amount), number.Scale(scale)))

	if amount < 0 {
		return "-" + symbol + digits
	}
	return symbol + digits
}

func fallbackCurrency(amount float64, code string) string {
	symbol, ok := fallbackSymbols[code]
	if !ok {
		symbol = code
	}
	return symbol + strconv.FormatFloat(amount, 'f', -1, 64)
}
