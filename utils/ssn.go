package utils

import "strings"

// CleanSSN strips everything but digits from an SSN candidate.
func CleanSSN(ssn string) string {
	var b strings.Builder
	for _, r := range ssn {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidSSN reports whether the input is a well-formed 9-digit SSN outside
// the known degenerate and reserved ranges: all-same-digit runs, sequential
// ascending/descending, area 000/666/9xx, group 00, serial 0000.
func IsValidSSN(ssn string) bool {
	cleanSSN := CleanSSN(ssn)
	if len(cleanSSN) != 9 {
		return false
	}

	// Degenerate patterns
	for d := '0'; d <= '9'; d++ {
		if cleanSSN == strings.Repeat(string(d), 9) {
			return false
		}
	}
	if cleanSSN == "123456789" || cleanSSN == "987654321" {
		return false
	}

	// Area number (first 3 digits)
	areaNumber := cleanSSN[0:3]
	if areaNumber == "000" || areaNumber == "666" || areaNumber[0] == '9' {
		return false
	}

	// Group number (middle 2 digits)
	if cleanSSN[3:5] == "00" {
		return false
	}

	// Serial number (last 4 digits)
	if cleanSSN[5:9] == "0000" {
		return false
	}

	return true
}

// FormatSSN renders a 9-digit SSN as XXX-XX-XXXX. Inputs of any other length
// come back unchanged.
func FormatSSN(ssn string) string {
	cleanSSN := CleanSSN(ssn)
	if len(cleanSSN) != 9 {
		return ssn
	}
	return cleanSSN[0:3] + "-" + cleanSSN[3:5] + "-" + cleanSSN[5:9]
}
