package fare

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCompute_KnownCategories(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryAdult, "2.50"},
		{CategoryStudent, "1.00"},
		{CategorySenior, "1.50"},
		{CategoryDisabled, "1.25"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := Compute(tt.category)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"fare for %s: got %s, want %s", tt.category, got, tt.want)
		})
	}
}

func TestCompute_UnknownCategoryFallsBackToAdult(t *testing.T) {
	adult := Compute(CategoryAdult)

	assert.True(t, Compute(Category("tourist")).Equal(adult))
	assert.True(t, Compute(Category("")).Equal(adult))
}
