// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"ai-storyboard-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPurchaseReceipt(toEmail string, receipt PurchaseReceipt) error
}

type PurchaseReceipt struct {
	PackName   string
	Tokens     int
	NewBalance int
	InvoiceId  string
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName, clientURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		clientURL:   clientURL,
		logger:      log,
	}
}

func (s *emailService) SendPurchaseReceipt(toEmail string, receipt PurchaseReceipt) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your %s purchase", receipt.PackName))
	m.SetBody("text/html", renderReceipt(receipt, s.clientURL))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send purchase receipt", map[string]interface{}{
			"to":         toEmail,
			"invoice_id": receipt.InvoiceId,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Purchase receipt sent", map[string]interface{}{
		"to":         toEmail,
		"invoice_id": receipt.InvoiceId,
	})
	return nil
}

func renderReceipt(receipt PurchaseReceipt, clientURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thanks for your purchase!</h2>
			<p><strong>%s</strong> added %d tokens to your account.</p>
			<p>Your balance is now <strong>%d</strong> tokens.</p>
			<p>Reference: %s</p>
			<a href="%s" style="background-color: #E91E63; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Continue chatting</a>
		</div>
	`, receipt.PackName, receipt.Tokens, receipt.NewBalance, receipt.InvoiceId, clientURL)
}
