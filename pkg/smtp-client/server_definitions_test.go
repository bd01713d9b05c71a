package smtp_client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadServerListFromFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "smtp-servers.yaml")
	content := `from: "Quotations <no-reply@example.com>"
sender: no-reply@example.com
replyTo:
  - support@example.com
servers:
  - host: smtp.example.com
    port: "587"
    connections: 2
    sendTimeout: 5
    auth:
      user: mailer
      password: from-file
`
	if err := os.WriteFile(fname, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var sl SmtpServerList
	if err := sl.ReadFromFile(fname); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sl.Servers) != 1 || sl.Servers[0].Address() != "smtp.example.com:587" {
		t.Fatalf("unexpected servers: %+v", sl.Servers)
	}

	sl.OverrideAuth("", "from-env")
	if sl.Servers[0].AuthData.Username != "mailer" || sl.Servers[0].AuthData.Password != "from-env" {
		t.Errorf("unexpected auth data: %+v", sl.Servers[0].AuthData)
	}
}

func TestReadServerListRejectsUnknownFields(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "smtp-servers.yaml")
	if err := os.WriteFile(fname, []byte("unknown: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var sl SmtpServerList
	if err := sl.ReadFromFile(fname); err == nil {
		t.Error("expected error")
	}
}

func TestNewSmtpClientsWithoutServers(t *testing.T) {
	if _, err := NewSmtpClients(SmtpServerList{}); err == nil {
		t.Error("expected error")
	}
}
