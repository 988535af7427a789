package email

import (
	"context"
	"fmt"
	"html"

	"github.com/waste3d/coursehub/internal/platform/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const defaultHost = "https://api.sendgrid.com"

type EmailSender struct {
	apiKey      string
	senderEmail string
	senderName  string
	host        string
	log         *logger.Logger
}

// NewEmailSender returns a sender that does nothing when apiKey is empty.
func NewEmailSender(apiKey, senderEmail string, log *logger.Logger) *EmailSender {
	return &EmailSender{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  "CourseHub",
		host:        defaultHost,
		log:         log,
	}
}

// WithHost points the sender at another SendGrid compatible endpoint.
func (s *EmailSender) WithHost(host string) *EmailSender {
	s.host = host
	return s
}

func (s *EmailSender) Enabled() bool {
	return s.apiKey != "" && s.senderEmail != ""
}

func (s *EmailSender) SendCourseCompleted(ctx context.Context, to, name, courseTitle, courseURL string) error {
	if !s.Enabled() {
		s.log.Debug("email disabled, completion mail skipped", "to", to)
		return nil
	}
	if to == "" {
		return fmt.Errorf("sendgrid: recipient required")
	}

	subject := fmt.Sprintf("You completed %s", courseTitle)
	plain := fmt.Sprintf("Congratulations %s! You finished every lesson of %s. Review it any time: %s", name, courseTitle, courseURL)
	body := fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif;">
	<h3>Congratulations, %s!</h3>
	<p>You finished every lesson of <strong>%s</strong>.</p>
	<p><a href="%s">Open the course</a></p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(courseTitle), html.EscapeString(courseURL))

	message := mail.NewSingleEmail(
		mail.NewEmail(s.senderName, s.senderEmail),
		subject,
		mail.NewEmail(name, to),
		plain,
		body,
	)

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return err
	}
	// SendGrid answers 202 on success.
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	s.log.Info("completion email sent", "to", to, "course", courseTitle)
	return nil
}
