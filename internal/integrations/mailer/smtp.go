package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTPConfig параметры SMTP сервера
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendFunc func(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender отправляет письма напрямую через SMTP
type SMTPSender struct {
	cfg  SMTPConfig
	auth smtp.Auth
	send sendFunc
	log  Logger
}

// NewSMTPSender создает SMTPSender; аутентификация PLAIN используется, если задан Username
func NewSMTPSender(cfg SMTPConfig, log Logger) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		cfg:  cfg,
		auth: auth,
		send: sendMail,
		log:  log,
	}
}

// Send рендерит шаблон и отправляет письмо
func (s *SMTPSender) Send(ctx context.Context, kind TemplateKind, recipient string, data TemplateData) (bool, error) {
	if recipient == "" {
		return true, ErrNoRecipient
	}

	subject, body, err := Render(kind, data)
	if err != nil {
		return true, err
	}

	if err := s.Deliver(ctx, recipient, subject, body); err != nil {
		return true, err
	}

	s.log.Info("Email %s sent to %s", kind, recipient)
	return true, nil
}

// Deliver отправляет уже готовое письмо (используется и воркером очереди)
func (s *SMTPSender) Deliver(ctx context.Context, recipient, subject, body string) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	msg := buildMessage(s.cfg.From, recipient, subject, body)

	if err := s.send(ctx, addr, s.auth, s.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("%w: host=%s: %v", ErrSend, s.cfg.Host, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

// sendMail аналог smtp.SendMail, соблюдающий дедлайн контекста
func sendMail(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	host, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}); err != nil {
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
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
