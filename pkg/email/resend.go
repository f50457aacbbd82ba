package email

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type EmailService struct {
	client      *resend.Client
	from        string
	fromName    string
	billingLink string
	logger      *zap.Logger
}

func NewEmailService(apiKey, from, fromName, billingLink string, logger *zap.Logger) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailService{
		client:      resend.NewClient(apiKey),
		from:        from,
		fromName:    fromName,
		billingLink: billingLink,
		logger:      logger.Named("email"),
	}
}

func (s *EmailService) SendCancellationEmail(ctx context.Context, to string, result models.CancelResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	html, err := s.renderCancellation(result)
	if err != nil {
		s.logger.Error("parse cancellation template", zap.String("to", to), zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "Your Study Planner subscription was canceled",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("send cancellation email", zap.String("to", to), zap.Error(err))
		return err
	}

	s.logger.Info("cancellation email sent", zap.String("to", to), zap.String("id", resp.Id))
	return nil
}

func (s *EmailService) renderCancellation(result models.CancelResult) (string, error) {
	data := map[string]interface{}{
		"SubscriptionID": result.SubscriptionID,
		"Status":         result.Status,
		"CanceledAt":     "",
		"BillingLink":    s.billingLink,
		"Year":           time.Now().Year(),
	}
	if result.CanceledAt != nil {
		data["CanceledAt"] = result.CanceledAt.Format("January 2, 2006")
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "subscription-canceled.html", data); err != nil {
		return "", err
	}
	return body.String(), nil
}
