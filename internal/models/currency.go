package models

import "strings"

// Supported account currencies
const (
	CurrencyUSD = "USD"
	CurrencyGBP = "GBP"
	CurrencyEUR = "EUR"
)

// SupportedCurrencies lists the currencies an account may be opened in.
var SupportedCurrencies = []string{CurrencyUSD, CurrencyGBP, CurrencyEUR}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsSupportedCurrency checks an already normalized code against SupportedCurrencies.
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
