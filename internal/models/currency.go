package models

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency describes one supported budget currency: its symbol plus the
// slider range, step and quick-pick presets the form offers for it.
type Currency struct {
	Code    string
	Name    string
	Symbol  string
	Min     int
	Max     int
	Step    int
	Presets []int
}

var Currencies = []Currency{
	{
		Code: "NGN", Name: "Nigerian Naira", Symbol: "₦",
		Min: 5000, Max: 500000, Step: 5000,
		Presets: []int{10000, 25000, 50000, 100000},
	},
	{
		Code: "USD", Name: "US Dollar", Symbol: "$",
		Min: 10, Max: 1000, Step: 5,
		Presets: []int{25, 50, 100, 250},
	},
	{
		Code: "EUR", Name: "Euro", Symbol: "€",
		Min: 10, Max: 1000, Step: 5,
		Presets: []int{25, 50, 100, 250},
	},
	{
		Code: "GBP", Name: "British Pound", Symbol: "£",
		Min: 10, Max: 1000, Step: 5,
		Presets: []int{25, 50, 100, 200},
	},
}

func CurrencyByCode(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

var budgetPrinter = message.NewPrinter(language.English)

// FormatBudget renders the slider value the way the form stores it, e.g.
// "Around $150" or "Around ₦25,000". No decimals, thousands grouped.
func (c Currency) FormatBudget(amount int) string {
	return budgetPrinter.Sprintf("Around %s%d", c.Symbol, amount)
}
