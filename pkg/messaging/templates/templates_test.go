package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
)

func TestTemplateLanguageSelection(t *testing.T) {
	testTemplate := messagingTypes.MessageTemplate{
		MessageType:     "test-type",
		DefaultLanguage: "en",
		Translations: []messagingTypes.LocalizedTemplate{
			{Lang: "en", Subject: "EN"},
			{Lang: "de", Subject: "DE"},
		},
	}

	t.Run("missing target language", func(t *testing.T) {
		translation := GetTemplateTranslation(testTemplate.Translations, "fr", testTemplate.DefaultLanguage)
		if translation.Subject != "EN" {
			t.Errorf("unexpected translation found: %v", translation)
		}
	})

	t.Run("existing target language", func(t *testing.T) {
		translation := GetTemplateTranslation(testTemplate.Translations, "de", testTemplate.DefaultLanguage)
		if translation.Subject != "DE" {
			t.Errorf("unexpected translation found: %v", translation)
		}
	})
}

func TestDefaultTemplatesParsable(t *testing.T) {
	for _, tmpl := range defaultTemplates() {
		if err := CheckAllTranslationsParsable(tmpl.Translations, tmpl.MessageType); err != nil {
			t.Errorf("template %s/%s: %v", tmpl.Channel, tmpl.MessageType, err)
		}
	}
}

func TestRegistryRender(t *testing.T) {
	r, err := NewRegistry(nil, map[string]string{"appName": "Quotations"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("temporary password email", func(t *testing.T) {
		subject, content, err := r.Render(messagingTypes.CHANNEL_EMAIL, messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD, "es", map[string]string{
			"username":          "alice",
			"temporaryPassword": "Xy7!abcdEFGH",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if subject != "Recuperación de contraseña" {
			t.Errorf("unexpected subject: %s", subject)
		}
		if !strings.Contains(content, "Xy7!abcdEFGH") || !strings.Contains(content, "Quotations") {
			t.Errorf("unexpected content: %s", content)
		}
	})

	t.Run("payload values are escaped", func(t *testing.T) {
		_, content, err := r.Render(messagingTypes.CHANNEL_TELEGRAM, messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD, "en", map[string]string{
			"username": "<script>",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(content, "<script>") {
			t.Errorf("payload not escaped: %s", content)
		}
	})

	t.Run("unknown message type", func(t *testing.T) {
		if _, _, err := r.Render(messagingTypes.CHANNEL_EMAIL, "unknown", "en", nil); err == nil {
			t.Error("expected error")
		}
	})
}

func TestRegistryOverrides(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "templates.yaml")
	content := `templates:
  - message_type: temporary-password
    channel: email
    default_language: en
    translations:
      - lang: en
        subject: Your new password
        template_def: "<p>{{.temporaryPassword}}</p>"
`
	if err := os.WriteFile(fname, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	overrides, err := LoadTemplatesFromFile(fname)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, err := NewRegistry(overrides, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	subject, html, err := r.Render(messagingTypes.CHANNEL_EMAIL, messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD, "en", map[string]string{"temporaryPassword": "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Your new password" || html != "<p>abc</p>" {
		t.Errorf("unexpected result: %s %s", subject, html)
	}

	_, err = NewRegistry([]messagingTypes.MessageTemplate{{MessageType: "broken", Channel: "email"}}, nil)
	if err == nil {
		t.Error("expected error for template without translations")
	}
}
