// Package mailer sends transactional mail. The only message the system
// sends today is the invitation email.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers invitation emails. Implementations must return an error
// on failed delivery so the caller can roll the invitation back.
type Mailer interface {
	SendInvitation(to, inviterName, acceptURL string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer creates a mailer for the given relay address
// ("host:port"). username may be empty for unauthenticated relays.
func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{addr: addr, from: from, auth: auth}
}

func (m *SMTPMailer) SendInvitation(to, inviterName, acceptURL string) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: You have been invited to Nexus\r\n\r\n"+
			"%s has invited you to join the company intranet.\r\n\r\n"+
			"Accept the invitation here: %s\r\n\r\n"+
			"The link expires in 7 days.\r\n",
		m.from, to, inviterName, acceptURL,
	)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("sending invitation mail: %w", err)
	}
	return nil
}
