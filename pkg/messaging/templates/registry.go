package templates

import (
	"fmt"
	"os"

	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
	"gopkg.in/yaml.v2"
)

// Registry resolves message templates per channel and message type.
type Registry struct {
	templates       map[string]messagingTypes.MessageTemplate
	globalConstants map[string]string
}

func templateKey(channel, messageType string) string {
	return channel + "/" + messageType
}

// NewRegistry starts from the built-in templates and replaces those with the same
// channel and message type by the given overrides.
func NewRegistry(overrides []messagingTypes.MessageTemplate, globalConstants map[string]string) (*Registry, error) {
	r := &Registry{
		templates:       map[string]messagingTypes.MessageTemplate{},
		globalConstants: globalConstants,
	}
	for _, t := range defaultTemplates() {
		r.templates[templateKey(t.Channel, t.MessageType)] = t
	}
	for _, t := range overrides {
		if err := CheckAllTranslationsParsable(t.Translations, t.MessageType); err != nil {
			return nil, err
		}
		r.templates[templateKey(t.Channel, t.MessageType)] = t
	}
	return r, nil
}

func LoadTemplatesFromFile(fname string) ([]messagingTypes.MessageTemplate, error) {
	content, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	var list struct {
		Templates []messagingTypes.MessageTemplate `yaml:"templates"`
	}
	if err := yaml.UnmarshalStrict(content, &list); err != nil {
		return nil, err
	}
	return list.Templates, nil
}

// Render returns the subject of the selected translation (may be empty) and the
// resolved content. Global constants are available in every template, payload
// values win on name clashes.
func (r *Registry) Render(channel string, messageType string, lang string, payload map[string]string) (subject string, content string, err error) {
	t, ok := r.templates[templateKey(channel, messageType)]
	if !ok {
		return "", "", fmt.Errorf("no template for message type %s on channel %s", messageType, channel)
	}

	translation := GetTemplateTranslation(t.Translations, lang, t.DefaultLanguage)

	infos := make(map[string]string, len(r.globalConstants)+len(payload))
	for k, v := range r.globalConstants {
		infos[k] = v
	}
	for k, v := range payload {
		infos[k] = v
	}

	content, err = ResolveTemplate(templateKey(channel, messageType)+translation.Lang, translation.TemplateDef, infos)
	if err != nil {
		return "", "", err
	}
	return translation.Subject, content, nil
}
