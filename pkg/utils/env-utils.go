package utils

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]+`)

// GenerateEnvVarName upper-cases the input and replaces every run of other
// characters with a single underscore.
func GenerateEnvVarName(input string) string {
	normalized := nonAlphanumeric.ReplaceAllString(strings.ToUpper(input), "_")
	return strings.Trim(normalized, "_")
}

// GenerateSMTPPasswordEnvVarName names the variable holding the password of one
// SMTP server. Format: SMTP_PASSWORD_FOR_{NORMALIZED_HOST}
func GenerateSMTPPasswordEnvVarName(host string) string {
	return "SMTP_PASSWORD_FOR_" + GenerateEnvVarName(host)
}
