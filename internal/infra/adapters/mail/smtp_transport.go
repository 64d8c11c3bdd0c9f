package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"birthday-coupons/internal/config"
	"birthday-coupons/internal/domain/ports/adapter"
	"birthday-coupons/internal/infra/metrics"
)

// SMTPTransport delivers rendered emails over plain SMTP with optional
// AUTH. Delivery is best effort; the caller decides what a failure means.
type SMTPTransport struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPTransport(cfg config.EmailConfig) *SMTPTransport {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPTransport{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

func (t *SMTPTransport) Send(ctx context.Context, msg adapter.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw := buildMessage(t.from, msg)
	if err := smtp.SendMail(t.addr, t.auth, t.from, []string{msg.To}, raw); err != nil {
		metrics.IncMailSend("failed")
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	metrics.IncMailSend("sent")
	return nil
}

func buildMessage(from string, msg adapter.Email) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")

	// Deterministic header order keeps the output testable.
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, msg.Headers[k])
	}

	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	return []byte(b.String())
}
