package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/mail.v2"

	"github.com/linyows/tagver/logging"
)

// MailDialer is the SMTP surface Mail needs, split out for testing.
type MailDialer interface {
	DialAndSend(m ...*mail.Message) error
}

// Mail sends tag announcements over SMTP.
type Mail struct {
	Host     string `schema:"host"`
	Port     int    `schema:"port"`
	Username string `schema:"username"`
	Password string `schema:"password"`
	From     string `schema:"from"`
	To       string `schema:"to"`
	Subject  string `schema:"subject"`
	TLS      bool   `schema:"tls"`
	dialer   MailDialer
	logger   *logging.Logger
}

// NewMail parses a host:port/recipient?username=...&password=... target.
// Credentials missing from the URL fall back to MAIL_USERNAME,
// MAIL_PASSWORD and MAIL_FROM.
func NewMail(target string, log *logging.Logger) (*Mail, error) {
	u, err := url.Parse("smtp://" + target)
	if err != nil {
		return nil, err
	}

	m := &Mail{
		Host:    u.Hostname(),
		Subject: "Tagver Notification",
		TLS:     true,
		logger:  log,
	}

	if u.Port() != "" {
		port, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %s", u.Port())
		}
		m.Port = port
	} else {
		m.Port = 587
	}

	if err := decoder.Decode(m, u.Query()); err != nil {
		return nil, err
	}

	if m.Username == "" {
		m.Username = os.Getenv("MAIL_USERNAME")
	}
	if m.Password == "" {
		m.Password = os.Getenv("MAIL_PASSWORD")
	}
	if m.From == "" {
		m.From = os.Getenv("MAIL_FROM")
	}
	if u.Path != "" && u.Path != "/" {
		m.To = strings.TrimPrefix(u.Path, "/")
	}
	if m.From == "" && m.Username != "" {
		m.From = m.Username
	}

	switch {
	case m.Host == "":
		return nil, fmt.Errorf("mail host is required")
	case m.Username == "":
		return nil, fmt.Errorf("mail username is required")
	case m.Password == "":
		return nil, fmt.Errorf("mail password is required")
	case m.From == "":
		return nil, fmt.Errorf("mail from address is required")
	case m.To == "":
		return nil, fmt.Errorf("mail to address is required")
	}

	return m, nil
}

// SetDialer replaces the SMTP dialer, used by tests.
func (m *Mail) SetDialer(dialer MailDialer) {
	m.dialer = dialer
}

// Send delivers one message.
func (m *Mail) Send(ctx context.Context, message string) {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", message)

	dialer := m.dialer
	if dialer == nil {
		d := mail.NewDialer(m.Host, m.Port, m.Username, m.Password)
		if m.TLS {
			d.StartTLSPolicy = mail.MandatoryStartTLS
		} else {
			d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		}
		dialer = d
	}

	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Error("mail send failure", "error", err)
	}
}
