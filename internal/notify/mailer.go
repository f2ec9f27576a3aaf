package notify

import (
	"crypto/tls"
	"fmt"
	"math/rand"
	"mime"
	"net"
	"net/smtp"
	"time"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/logger"
)

// SmtpMailer sends mail through a configured SMTP relay, speaking implicit
// TLS on port 465 and STARTTLS otherwise.
type SmtpMailer struct {
	cfg  *config.Smtp
	auth smtp.Auth
}

func NewSmtpMailer(cfg *config.Smtp) *SmtpMailer {
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Server)
	return &SmtpMailer{cfg: cfg, auth: auth}
}

func (m *SmtpMailer) Send(recipient, subject, body string) error {
	msg := m.buildMessage(recipient, subject, body)
	address := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)

	if m.cfg.Port == 465 {
		return m.sendImplicitTLS(address, recipient, msg)
	}
	return m.sendSTARTTLS(address, recipient, msg)
}

func (m *SmtpMailer) timeout() time.Duration {
	timeout := time.Duration(m.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

func (m *SmtpMailer) sendImplicitTLS(address, recipient string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: m.cfg.Server}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: m.timeout()}, "tcp", address, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return m.sendViaClient(client, recipient, msg)
}

func (m *SmtpMailer) sendSTARTTLS(address, recipient string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, m.timeout())
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: m.cfg.Server}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return m.sendViaClient(client, recipient, msg)
}

func (m *SmtpMailer) sendViaClient(client *smtp.Client, recipient string, msg []byte) error {
	if err := client.Auth(m.auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(m.cfg.Username); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func generateMessageID(domain string) string {
	t := time.Now().UnixNano()
	pid := rand.Int63()
	return fmt.Sprintf("<%d.%d@%s>", t, pid, domain)
}

func (m *SmtpMailer) buildMessage(recipient, subject, body string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", m.cfg.SenderName)

	msgID := generateMessageID(m.cfg.Server)
	date := time.Now().Format(time.RFC1123Z)

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		msgID, date, recipient, encodedSenderName, m.cfg.Username, encodedSubject, body,
	)
}

// LogMailer writes messages to the log instead of sending them. Used when
// SMTP is not configured (development, tests).
type LogMailer struct{}

func (LogMailer) Send(recipient, subject, body string) error {
	logger.Log.Info("mail (not sent, SMTP unconfigured)",
		"recipient", recipient, "subject", subject)
	return nil
}
