// Package currency renders amounts for display.
package currency

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"inr": "₹",
	"usd": "$",
	"eur": "€",
	"gbp": "£",
}

var printer = message.NewPrinter(language.English)

// Symbol returns the display symbol for a lower-case backend currency code, or
// the upper-cased code when unknown. The lookup is case-sensitive: "INR" has no
// symbol and renders as "INR".
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return strings.ToUpper(code)
}

// Format renders amount with its currency symbol and thousands grouping, e.g. "₹ 18,500".
func Format(amount float64, code string) string {
	return Symbol(code) + " " + printer.Sprintf("%v", number(amount))
}

// number drops the fraction for whole amounts so 18500.0 prints as 18,500.
func number(amount float64) any {
	if amount == float64(int64(amount)) {
		return int64(amount)
	}
	return amount
}
