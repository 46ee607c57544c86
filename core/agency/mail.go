package agency

import (
	"bytes"
	"context"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

// default reply offered to the agent before sending; advisory only.
var responseBodyTmpl = texttmpl.Must(texttmpl.New("response").Parse(
	`Dear {{.StudentName}},

Thank you for your interest in {{.CollegeName}}. We have received your inquiry and would be happy to assist you.

{{.MessageEcho}}

Best regards,
{{.TeamName}} Team
Phone: {{.AgentPhone}}
Email: {{.FromEmail}}
`))

const genericPrompt = "Please let us know if you have any specific questions about the college or courses."

type responseContext struct {
	StudentName string
	CollegeName string
	MessageEcho string
	TeamName    string
	AgentPhone  string
	FromEmail   string
}

// ResponsePrefill builds the default subject/body offered to the agent for an
// inquiry. The signature carries the acting agent's phone when their profile
// has one.
func (svc *Service) ResponsePrefill(ctx context.Context, inquiryID uint, profile AgentProfile) (ResponseEmail, error) {
	inq, err := svc.repo.GetInquiryByID(ctx, inquiryID)
	if err != nil {
		return ResponseEmail{}, err
	}

	data := responseContext{
		StudentName: inq.StudentName,
		CollegeName: inq.College.Name,
		MessageEcho: inq.Message,
		TeamName:    svc.conf.AppName,
		AgentPhone:  profile.Phone,
		FromEmail:   svc.conf.DefaultFromEmail,
	}
	if data.MessageEcho == "" {
		data.MessageEcho = genericPrompt
	}
	if data.AgentPhone == "" {
		data.AgentPhone = "Contact us for details"
	}

	var buff bytes.Buffer
	if err := responseBodyTmpl.Execute(&buff, data); err != nil {
		return ResponseEmail{}, errors.Wrap(err, "rendering response template")
	}

	return ResponseEmail{
		InquiryID: inq.ID,
		Subject:   "Re: Your inquiry about " + inq.College.Name,
		Message:   buff.String(),
	}, nil
}
