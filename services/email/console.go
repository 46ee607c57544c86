package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/ajuagency/collegia/core"
)

type consoleService struct {
	defaultFrom mail.Address
	subjPrefix  string
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService returns an EmailService that writes messages to the log
// instead of delivering them. Used in DEV mode.
func NewConsoleService(conf *core.Config) *consoleService {
	return &consoleService{
		defaultFrom: conf.ReplyFrom(),
		subjPrefix:  "[" + conf.AppName + "] ",
	}
}

func (svc consoleService) SendMessage(msg *core.EmailMessage) error {
	if !msg.HasRecipients() || !msg.HasContent() {
		return nil
	}

	from := msg.From
	if from.Address == "" {
		from = svc.defaultFrom
	}

	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "From: %s\r\n", from.String())
	_, _ = fmt.Fprint(body, "MIME-Version: 1.0\r\n")
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", svc.subjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	_, _ = fmt.Fprintf(body, "CC: %s\r\n", joinAddresses(msg.Cc))
	_, _ = fmt.Fprintf(body, "BCC: %s\r\n", joinAddresses(msg.Bcc))
	_, _ = fmt.Fprint(body, "Content-Type: text/plain\r\n")
	_, _ = fmt.Fprint(body, "\r\n")
	_, _ = fmt.Fprintf(body, "%s\r\n", msg.Body)

	log.Println(body.String())
	return nil
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}
