package utils_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gitayam/short-term-land-lord-sub001/internal/utils"
)

func TestRoundCurrency_HalfEven(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"exact cents untouched", "22.50", "22.5"},
		{"half rounds to even down", "2.125", "2.12"},
		{"half rounds to even up", "2.135", "2.14"},
		{"above half rounds up", "2.126", "2.13"},
		{"negative half rounds to even", "-2.125", "-2.12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := decimal.RequireFromString(tt.in)
			assert.Equal(t, tt.want, utils.RoundCurrency(in).String())
		})
	}
}

func TestHourlyAmount(t *testing.T) {
	tests := []struct {
		name    string
		rate    string
		minutes int
		want    string
	}{
		{"90 minutes at 15", "15.00", 90, "22.5"},
		{"full hour", "40.00", 60, "40"},
		{"zero minutes", "50.00", 0, "0"},
		{"uneven minutes round", "10.00", 50, "8.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := decimal.RequireFromString(tt.rate)
			assert.Equal(t, tt.want, utils.HourlyAmount(rate, tt.minutes).String())
		})
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		pct    string
		want   string
	}{
		{"8 percent tax", "40.00", "8", "3.2"},
		{"full business use", "120.00", "100", "120"},
		{"partial business use", "100.00", "62.5", "62.5"},
		{"zero percent", "99.99", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			pct := decimal.RequireFromString(tt.pct)
			assert.Equal(t, tt.want, utils.PercentOf(amount, pct).String())
		})
	}
}
