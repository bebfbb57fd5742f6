package utils

import (
	"fmt"
	"math"
	"strings"
)

// Round2 rounds a monetary value to two decimal places for API responses.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPhoneNumber normalizes a phone number to a +-prefixed form, assuming
// a US number when a bare 10-digit string comes in.
func FormatPhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if !strings.HasPrefix(cleaned, "1") && len(cleaned) == 10 {
		return "+1" + cleaned
	}
	return "+" + cleaned
}

func pluralSuffix(count int) string {
	if count > 1 {
		return "s"
	}
	return ""
}

// FormatInvestmentPeriod renders the time a user has been invested as a
// human-readable string: days under a month, months (and days) under a year,
// years (and months) beyond that.
func FormatInvestmentPeriod(daysInvested int) string {
	if daysInvested <= 0 {
		return "0 days"
	}

	if daysInvested >= 365 {
		years := daysInvested / 365
		months := (daysInvested % 365) / 30
		period := fmt.Sprintf("%d year%s", years, pluralSuffix(years))
		if months > 0 {
			period += fmt.Sprintf(", %d month%s", months, pluralSuffix(months))
		}
		return period
	}

	if daysInvested >= 30 {
		months := daysInvested / 30
		remainingDays := daysInvested % 30
		period := fmt.Sprintf("%d month%s", months, pluralSuffix(months))
		if remainingDays > 0 {
			period += fmt.Sprintf(", %d day%s", remainingDays, pluralSuffix(remainingDays))
		}
		return period
	}

	return fmt.Sprintf("%d day%s", daysInvested, pluralSuffix(daysInvested))
}
