package types

type Recipient struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Notification is one out-of-band message about an account. Payload values are
// filled into the message template of MessageType.
type Notification struct {
	Recipient   Recipient         `json:"recipient"`
	MessageType string            `json:"messageType"`
	Subject     string            `json:"subject"`
	Payload     map[string]string `json:"payload"`
}
