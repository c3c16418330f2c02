package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Mailer delivers HTML mail over SMTP. Works with MailHog (no auth) and
// regular servers (PlainAuth + STARTTLS when offered).
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	linkBase string
	// If true, skip TLS certificate verification (local dev).
	InsecureSkipVerify bool
}

func NewMailer(host string, port int, user, pass, from, linkBase string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from, linkBase: linkBase}
}

// SendConfirmationCode mails a registration-completion link embedding the
// confirmation code.
func (m *Mailer) SendConfirmationCode(ctx context.Context, to, code string) error {
	link := fmt.Sprintf("%s/confirm-registration?code=%s", m.linkBase, code)
	body := fmt.Sprintf(`<h2>Confirm your e-mail</h2><p><a href="%s">complete registration</a></p><p>The link is valid for 1 hour.</p>`, link)
	return m.send(ctx, to, "confirmation code", body)
}

// SendRecoveryCode mails a password-reset link embedding the recovery code.
func (m *Mailer) SendRecoveryCode(ctx context.Context, to, code string) error {
	link := fmt.Sprintf("%s/recovery-password?code=%s", m.linkBase, code)
	body := fmt.Sprintf(`<h2>Password recovery</h2><p><a href="%s">recover password</a></p><p>The link is valid for 1 hour.</p>`, link)
	return m.send(ctx, to, "password recovery code", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	headers := map[string]string{
		"From":         m.from,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	var sb strings.Builder
	for k, v := range headers {
		sb.WriteString(k + ": " + v + "\r\n")
	}
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if err := c.Hello("localhost"); err != nil {
		return err
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		cfg := &tls.Config{
			ServerName:         m.host,
			InsecureSkipVerify: m.InsecureSkipVerify,
		}
		if err := c.StartTLS(cfg); err != nil {
			return err
		}
		// EHLO again after TLS to refresh the extension list.
		if err := c.Hello("localhost"); err != nil {
			return err
		}
	}
	if auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(sb.String())); err != nil {
		return err
	}
	return w.Close()
}
