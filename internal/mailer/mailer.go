// Package mailer composes the welcome message and submits it to a locally
// trusted mail relay. Delivery is fire-and-forget: a failed submission is
// logged and reported through Result, never as an error, so a relay outage
// can never block or roll back a signup.
package mailer

import (
	"bytes"
	"fmt"
	"log"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/ignite/gaia-api/internal/config"
)

// Result reports the outcome of a welcome-mail submission. Callers that
// must not depend on delivery (the signup path) receive it and discard it.
type Result struct {
	Sent   bool
	Reason string
}

// Mailer sends the fixed welcome message through the configured relay.
type Mailer struct {
	relayAddr string
	fromEmail string
	fromName  string
	giftURL   string

	// sendFn submits a composed message; swapped out in tests.
	sendFn func(addr, from, to string, msg []byte) error
}

// New creates a Mailer from mail configuration.
func New(cfg config.MailConfig) *Mailer {
	return &Mailer{
		relayAddr: cfg.RelayAddr(),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		giftURL:   cfg.GiftURL,
		sendFn:    submitSMTP,
	}
}

// submitSMTP hands the message to the relay. The relay is a trusted local
// agent (Postfix on the same host), so no authentication is used.
func submitSMTP(addr, from, to string, msg []byte) error {
	return smtp.SendMail(addr, nil, from, []string{to}, msg)
}

// SendWelcome composes the dual-format welcome message for the given
// recipient and submits it to the relay. Any failure during composition or
// submission is logged and converted to an unsent Result; this method never
// returns an error.
func (m *Mailer) SendWelcome(to string) Result {
	msg, err := m.composeWelcome(to)
	if err != nil {
		log.Printf("[mailer] compose for %s failed: %v", to, err)
		return Result{Sent: false, Reason: err.Error()}
	}

	if err := m.sendFn(m.relayAddr, m.fromEmail, to, msg); err != nil {
		log.Printf("[mailer] send to %s via %s failed: %v", to, m.relayAddr, err)
		return Result{Sent: false, Reason: err.Error()}
	}

	return Result{Sent: true}
}

// composeWelcome builds a multipart/alternative message with plain-text and
// HTML bodies for the welcome template.
func (m *Mailer) composeWelcome(to string) ([]byte, error) {
	text, html, err := renderWelcome(m.fromName, m.giftURL)
	if err != nil {
		return nil, err
	}

	messageID := fmt.Sprintf("%s@gaia", uuid.New().String())
	boundary := fmt.Sprintf("=_%s", uuid.New().String()[:16])

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", m.fromName, m.fromEmail))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", welcomeSubject))
	buf.WriteString(fmt.Sprintf("Message-ID: <%s>\r\n", messageID))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	buf.WriteString("\r\n")

	buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	buf.WriteString(text)
	buf.WriteString("\r\n")

	buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	buf.WriteString(html)
	buf.WriteString("\r\n")
	buf.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return buf.Bytes(), nil
}
