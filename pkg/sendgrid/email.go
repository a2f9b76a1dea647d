package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Email struct {
	To          string
	CC          []string
	Subject     string
	Content     string
	HTMLContent string
}

type EmailService interface {
	Send(ctx context.Context, email *Email) error
	GetSendGridClient() *sendgrid.Client
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

func (e *emailService) Send(ctx context.Context, email *Email) error {

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(e.fromName, e.fromEmail))

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", email.To))

	for _, cc := range email.CC {
		personalization.AddCCs(mail.NewEmail("", cc))
	}

	personalization.Subject = email.Subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", email.Content))
	if email.HTMLContent != "" {
		message.AddContent(mail.NewContent("text/html", email.HTMLContent))
	}

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

// GetSendGridClient exposes the underlying client, tests point its BaseURL at a fake server.
func (e *emailService) GetSendGridClient() *sendgrid.Client {
	return e.client
}

// LowStockAlerter mails the shop operator when a checkout leaves products at or below
// the configured threshold.
type LowStockAlerter struct {
	email EmailService
	to    string
}

func NewLowStockAlerter(email EmailService, to string) *LowStockAlerter {
	return &LowStockAlerter{email: email, to: to}
}

func (a *LowStockAlerter) NotifyLowStock(ctx context.Context, items []models.LowStockItem) error {
	if len(items) == 0 {
		return nil
	}

	var text, html strings.Builder
	html.WriteString("<ul>")
	for _, item := range items {
		fmt.Fprintf(&text, "Product %d: %d left\n", item.ProductID, item.Remaining)
		fmt.Fprintf(&html, "<li>Product %d: %d left</li>", item.ProductID, item.Remaining)
	}
	html.WriteString("</ul>")

	return a.email.Send(ctx, &Email{
		To:          a.to,
		Subject:     fmt.Sprintf("Low stock: %d product(s)", len(items)),
		Content:     text.String(),
		HTMLContent: html.String(),
	})
}
