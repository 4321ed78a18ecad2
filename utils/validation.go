// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidatePhone accepts an optional leading + followed by 7 to 15 digits,
// after stripping common separators.
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	match, _ := regexp.MatchString(`^\+?\d{7,15}$`, cleaned)
	return match
}
