package emailsvc

import (
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/ajuagency/collegia/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridService struct {
	key         string
	defaultFrom *sgmail.Email
	subjPrefix  string
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config) *sendgridService {
	from := conf.ReplyFrom()
	return &sendgridService{
		key:         conf.SendgridAPIKey,
		defaultFrom: sgmail.NewEmail(from.Name, from.Address),
		subjPrefix:  "[" + conf.AppName + "] ",
	}
}

// SendMessage hands the message over to the Sendgrid API and blocks until
// it is accepted or rejected.
func (svc sendgridService) SendMessage(msg *core.EmailMessage) error {
	if !msg.HasRecipients() || !msg.HasContent() {
		return nil
	}

	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sending email")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (svc sendgridService) prepare(msg *core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + msg.Subject

	for _, to := range msg.To {
		p.AddTos(svc.getSGEmail(to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(svc.getSGEmail(cc))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(svc.getSGEmail(bcc))
	}

	m := sgmail.NewV3Mail()
	if msg.From.Address != "" {
		m.SetFrom(sgmail.NewEmail(msg.From.Name, msg.From.Address))
	} else {
		m.SetFrom(svc.defaultFrom)
	}
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Body))

	return m
}

func (svc sendgridService) getSGEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}
