package templates

import messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"

const emailTemporaryPasswordEN = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>{{.appName}} - Password recovery</h2>
  <p>Hello {{.username}},</p>
  <p>A password reset was requested for your account. Use the following temporary password to log in:</p>
  <p style="font-size: 18px;"><code>{{.temporaryPassword}}</code></p>
  <p>You will be asked to set a new password after logging in.</p>
  <p>If you did not request this, please contact an administrator.</p>
</body>
</html>`

const emailTemporaryPasswordES = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>{{.appName}} - Recuperación de contraseña</h2>
  <p>Hola {{.username}},</p>
  <p>Se solicitó restablecer la contraseña de su cuenta. Use la siguiente contraseña temporal para iniciar sesión:</p>
  <p style="font-size: 18px;"><code>{{.temporaryPassword}}</code></p>
  <p>Después de iniciar sesión deberá definir una nueva contraseña.</p>
  <p>Si usted no lo solicitó, contacte a un administrador.</p>
</body>
</html>`

const emailResetLinkEN = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>{{.appName}} - Password reset</h2>
  <p>Hello {{.username}},</p>
  <p>Use the following link to choose a new password. It is valid for {{.validForHours}} hour(s) and can be used once.</p>
  {{if .resetLink}}<p><a href="{{.resetLink}}">Reset password</a></p>{{else}}<p><code>{{.token}}</code></p>{{end}}
</body>
</html>`

const emailResetLinkES = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>{{.appName}} - Restablecer contraseña</h2>
  <p>Hola {{.username}},</p>
  <p>Use el siguiente enlace para elegir una nueva contraseña. Es válido por {{.validForHours}} hora(s) y puede usarse una sola vez.</p>
  {{if .resetLink}}<p><a href="{{.resetLink}}">Restablecer contraseña</a></p>{{else}}<p><code>{{.token}}</code></p>{{end}}
</body>
</html>`

const telegramTemporaryPasswordEN = `<b>Password recovery</b>
User: {{.username}}
Email: {{.email}}
Temporary password: <code>{{.temporaryPassword}}</code>`

const telegramTemporaryPasswordES = `<b>Recuperación de contraseña</b>
Usuario: {{.username}}
Email: {{.email}}
Contraseña temporal: <code>{{.temporaryPassword}}</code>`

const telegramResetLinkEN = `<b>Password reset link</b>
User: {{.username}}
Email: {{.email}}
Valid for: {{.validForHours}} h
{{if .resetLink}}{{.resetLink}}{{else}}<code>{{.token}}</code>{{end}}`

const telegramResetLinkES = `<b>Enlace para restablecer contraseña</b>
Usuario: {{.username}}
Email: {{.email}}
Válido por: {{.validForHours}} h
{{if .resetLink}}{{.resetLink}}{{else}}<code>{{.token}}</code>{{end}}`

func defaultTemplates() []messagingTypes.MessageTemplate {
	return []messagingTypes.MessageTemplate{
		{
			MessageType:     messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD,
			Channel:         messagingTypes.CHANNEL_EMAIL,
			DefaultLanguage: "en",
			Translations: []messagingTypes.LocalizedTemplate{
				{Lang: "en", Subject: "Password recovery", TemplateDef: emailTemporaryPasswordEN},
				{Lang: "es", Subject: "Recuperación de contraseña", TemplateDef: emailTemporaryPasswordES},
			},
		},
		{
			MessageType:     messagingTypes.MESSAGE_TYPE_PASSWORD_RESET_LINK,
			Channel:         messagingTypes.CHANNEL_EMAIL,
			DefaultLanguage: "en",
			Translations: []messagingTypes.LocalizedTemplate{
				{Lang: "en", Subject: "Password reset", TemplateDef: emailResetLinkEN},
				{Lang: "es", Subject: "Restablecer contraseña", TemplateDef: emailResetLinkES},
			},
		},
		{
			MessageType:     messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD,
			Channel:         messagingTypes.CHANNEL_TELEGRAM,
			DefaultLanguage: "en",
			Translations: []messagingTypes.LocalizedTemplate{
				{Lang: "en", TemplateDef: telegramTemporaryPasswordEN},
				{Lang: "es", TemplateDef: telegramTemporaryPasswordES},
			},
		},
		{
			MessageType:     messagingTypes.MESSAGE_TYPE_PASSWORD_RESET_LINK,
			Channel:         messagingTypes.CHANNEL_TELEGRAM,
			DefaultLanguage: "en",
			Translations: []messagingTypes.LocalizedTemplate{
				{Lang: "en", TemplateDef: telegramResetLinkEN},
				{Lang: "es", TemplateDef: telegramResetLinkES},
			},
		},
	}
}
