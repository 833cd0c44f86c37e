package fare

import "github.com/shopspring/decimal"

// Category classifies a rider for fare purposes.
type Category string

const (
	CategoryAdult    Category = "adult"
	CategoryStudent  Category = "student"
	CategorySenior   Category = "senior"
	CategoryDisabled Category = "disabled"
)

// Fixed fare table. Fares are flat per ride, no zones or transfers.
var table = map[Category]decimal.Decimal{
	CategoryAdult:    decimal.RequireFromString("2.50"),
	CategoryStudent:  decimal.RequireFromString("1.00"),
	CategorySenior:   decimal.RequireFromString("1.50"),
	CategoryDisabled: decimal.RequireFromString("1.25"),
}

// Compute returns the fixed fare for a rider category. Unknown categories
// are charged the adult rate; this is the documented default, do not
// special-case further.
func Compute(category Category) decimal.Decimal {
	if fare, ok := table[category]; ok {
		return fare
	}
	return table[CategoryAdult]
}
