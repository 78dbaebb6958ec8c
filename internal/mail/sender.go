package mail

import (
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"devsecops-platform/internal/config"
)

// ErrDisabled is returned when email delivery is turned off. Callers treat
// it as "not sent", never as a request failure.
var ErrDisabled = errors.New("email delivery disabled")

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers email messages. The SMTP implementation below is the only
// production one; tests substitute fakes.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	cfg config.SMTPConfig
	log *slog.Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSender(cfg config.SMTPConfig, log *slog.Logger) *SMTPSender {
	if log == nil {
		log = slog.Default()
	}
	return &SMTPSender{cfg: cfg, log: log, send: smtp.SendMail}
}

func (s *SMTPSender) Send(msg Message) error {
	if !s.cfg.Enabled {
		return ErrDisabled
	}
	if msg.To == "" {
		return errors.New("recipient is required")
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	headers := []string{
		fmt.Sprintf("From: %s <%s>", s.fromName(), from),
		fmt.Sprintf("To: %s", msg.To),
		fmt.Sprintf("Subject: %s", msg.Subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	body := strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.HTML

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, from, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *SMTPSender) fromName() string {
	if s.cfg.FromName != "" {
		return s.cfg.FromName
	}
	return "DevSecOps Platform"
}
