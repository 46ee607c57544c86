package core

import (
	"fmt"
	"net/mail"
)

type (
	EmailMessage struct {
		From    mail.Address
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		Body    string // text/plain content
	}

	// EmailService is any service that can deliver email messages.
	// SendMessage blocks until the transport accepts or rejects the message.
	EmailService interface {
		SendMessage(msg *EmailMessage) error
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.Body != "" }

// TransportError wraps any error raised by an EmailService while
// handing a message over to the underlying mail transport.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mail transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
