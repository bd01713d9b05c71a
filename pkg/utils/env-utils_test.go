package utils

import "testing"

func TestGenerateEnvVarName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name",
			input:    "mailer",
			expected: "MAILER",
		},
		{
			name:     "host name",
			input:    "smtp.example-mail.com",
			expected: "SMTP_EXAMPLE_MAIL_COM",
		},
		{
			name:     "separators at the edges",
			input:    "..relay_1..",
			expected: "RELAY_1",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only separators",
			input:    "-.-",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateEnvVarName(tt.input)
			if result != tt.expected {
				t.Errorf("GenerateEnvVarName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGenerateSMTPPasswordEnvVarName(t *testing.T) {
	result := GenerateSMTPPasswordEnvVarName("smtp.office365.com")
	expected := "SMTP_PASSWORD_FOR_SMTP_OFFICE365_COM"
	if result != expected {
		t.Errorf("GenerateSMTPPasswordEnvVarName() = %q, want %q", result, expected)
	}
}
