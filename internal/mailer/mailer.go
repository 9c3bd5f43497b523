package mailer

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer sends transactional email over SMTP. All sends are best-effort:
// callers log and swallow errors, and an unconfigured mailer (empty host)
// silently drops everything, which keeps local development mail-free.
type Mailer struct {
	Host string
	Port int
	User string
	Pass string
	From string

	// FrontendURL is used to build links in outgoing mail.
	FrontendURL string
}

func New(host string, port int, user, pass, from, frontendURL string) *Mailer {
	return &Mailer{
		Host:        host,
		Port:        port,
		User:        user,
		Pass:        pass,
		From:        from,
		FrontendURL: frontendURL,
	}
}

// SendWelcome greets a newly registered user.
func (m *Mailer) SendWelcome(to, username string) error {
	subject := "Welcome to WebChat!"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour account is ready. Jump in, pick your topics and meet someone new.\r\n",
		username,
	)
	return m.send(to, subject, body)
}

// SendPasswordReset mails the reset link for a requested password reset.
func (m *Mailer) SendPasswordReset(to, token string) error {
	subject := "Password reset requested"
	body := fmt.Sprintf(
		"A password reset was requested for your account.\r\n\r\n"+
			"Open %s/reset-password?token=%s to choose a new password. "+
			"The link expires in 10 minutes.\r\n\r\n"+
			"If you did not request this, ignore this email.\r\n",
		m.FrontendURL, token,
	)
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	if m.Host == "" {
		log.Printf("Mailer not configured, dropping %q to %s", subject, to)
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.From, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	return smtp.SendMail(addr, auth, m.From, []string{to}, msg)
}
