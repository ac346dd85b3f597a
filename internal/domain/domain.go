package domain

import (
	"fmt"
	"strings"
)

// Currency holds display metadata for a supported currency.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Flag   string `json:"flag"`
}

// Currencies maps ISO 4217 codes to display metadata.
var Currencies = map[string]Currency{
	"USD": {Code: "USD", Name: "US Dollar", Symbol: "$", Flag: "🇺🇸"},
	"EUR": {Code: "EUR", Name: "Euro", Symbol: "€", Flag: "🇪🇺"},
	"GBP": {Code: "GBP", Name: "British Pound", Symbol: "£", Flag: "🇬🇧"},
	"JPY": {Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Flag: "🇯🇵"},
	"CHF": {Code: "CHF", Name: "Swiss Franc", Symbol: "Fr", Flag: "🇨🇭"},
	"CAD": {Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Flag: "🇨🇦"},
	"AUD": {Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Flag: "🇦🇺"},
	"CNY": {Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Flag: "🇨🇳"},
	"INR": {Code: "INR", Name: "Indian Rupee", Symbol: "₹", Flag: "🇮🇳"},
	"BRL": {Code: "BRL", Name: "Brazilian Real", Symbol: "R$", Flag: "🇧🇷"},
}

// SupportedCodes lists all supported currency codes in display order.
var SupportedCodes = []string{
	"USD", "EUR", "GBP", "JPY", "CHF",
	"CAD", "AUD", "CNY", "INR", "BRL",
}

// BaseRates holds units of each currency per 1 USD. This is the
// built-in rate table used when no external provider is configured;
// it is the single shared copy consumed by every caller.
var BaseRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.50,
	"CHF": 0.88,
	"CAD": 1.36,
	"AUD": 1.52,
	"CNY": 7.24,
	"INR": 83.10,
	"BRL": 4.97,
}

// IsSupported reports whether code is a tracked currency.
func IsSupported(code string) bool {
	_, ok := Currencies[strings.ToUpper(code)]
	return ok
}

// ParsePair accepts "EURUSD" or "EUR/USD" and returns the two codes.
func ParsePair(pair string) (string, string, error) {
	p := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(pair), "/", ""))
	if len(p) != 6 {
		return "", "", fmt.Errorf("invalid pair %q: want FROM/TO codes", pair)
	}
	from, to := p[:3], p[3:]
	if !IsSupported(from) {
		return "", "", fmt.Errorf("unsupported currency: %s", from)
	}
	if !IsSupported(to) {
		return "", "", fmt.Errorf("unsupported currency: %s", to)
	}
	return from, to, nil
}

// TrackedPairs are the pairs the poller keeps warm in the cache and
// the SSH dashboard displays by default.
var TrackedPairs = []string{
	"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF",
	"USD/CAD", "AUD/USD", "USD/CNY", "USD/INR",
}
