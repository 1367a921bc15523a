package mailer

import (
	"fmt"

	"learnflow-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPasswordReset(toEmail, resetLink string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		logger:      log,
	}
}

func (s *emailService) SendPasswordReset(toEmail, resetLink string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Reset Your Password")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Password Reset Request</h2>
			<p>You requested to reset your LearnFlowAI password. Click the button below to proceed:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>If you didn't request this, please ignore this email.</p>
		</div>
	`, resetLink, resetLink)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send reset link", map[string]interface{}{
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Reset link sent", map[string]interface{}{"to": toEmail})
	return nil
}
