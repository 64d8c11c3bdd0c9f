package adapter

import "context"

// Email is a rendered message ready for transport.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	Headers  map[string]string
}

// MailTransport hands a rendered email to the delivery system. Failures
// are reported but issuance never rolls back on them.
type MailTransport interface {
	Send(ctx context.Context, msg Email) error
}
