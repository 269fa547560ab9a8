package utils

import (
	"strings"

	"servicehub-server/config"
)

// ValidatePhoneNumber validates phone number format with country code
func ValidatePhoneNumber(phoneNumber string) bool {
	cleaned := cleanPhoneNumber(phoneNumber)
	code := config.AppConfig.Phone.DefaultCountryCode

	if !strings.HasPrefix(cleaned, code) {
		return false
	}

	numberPart := cleaned[len(code):]
	if len(numberPart) < 8 || len(numberPart) > 11 {
		return false
	}
	for _, char := range numberPart {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}

// FormatPhoneNumber formats phone number to include the default country
// code if not present
func FormatPhoneNumber(phoneNumber string) string {
	cleaned := cleanPhoneNumber(phoneNumber)
	code := config.AppConfig.Phone.DefaultCountryCode

	if strings.HasPrefix(cleaned, code) {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "+")
	return code + cleaned
}

func cleanPhoneNumber(phoneNumber string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(phoneNumber))
}
