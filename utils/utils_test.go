package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.0, Round2(10.004))
	assert.Equal(t, 10.01, Round2(10.005))
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, -2.35, Round2(-2.345))
}

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4155552671", "+14155552671"},
		{"(415) 555-2671", "+14155552671"},
		{"14155552671", "+14155552671"},
		{"+1 415 555 2671", "+14155552671"},
		{"447911123456", "+447911123456"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhoneNumber(tt.in), "input %q", tt.in)
	}
}

func TestFormatInvestmentPeriod(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "0 days"},
		{-3, "0 days"},
		{1, "1 day"},
		{15, "15 days"},
		{30, "1 month"},
		{45, "1 month, 15 days"},
		{60, "2 months"},
		{365, "1 year"},
		{400, "1 year, 1 month"},
		{800, "2 years, 2 months"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatInvestmentPeriod(tt.days), "days=%d", tt.days)
	}
}
