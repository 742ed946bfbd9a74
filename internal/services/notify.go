package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/lalushbella/p2prental-backend/internal/config"
	"github.com/lalushbella/p2prental-backend/internal/models"
)

// EmailSender delivers an OTP over email.
type EmailSender interface {
	SendOTPEmail(to, code string, action models.OTPAction) error
}

// SMSSender delivers an OTP over SMS.
type SMSSender interface {
	SendOTPSMS(mobile, code string, action models.OTPAction) error
}

// Notifier fans an OTP out to both channels and reports per-channel
// success. Channel failures are logged, never propagated.
type Notifier struct {
	email EmailSender
	sms   SMSSender
}

// NewNotifier creates a notifier from the two channel senders. Either
// sender may be nil, in which case that channel always reports false.
func NewNotifier(email EmailSender, sms SMSSender) *Notifier {
	return &Notifier{email: email, sms: sms}
}

// Dispatch sends the code via email (when an address is known) and SMS.
func (n *Notifier) Dispatch(session *models.OTPSession) models.DeliveryReceipt {
	var receipt models.DeliveryReceipt

	if n.email != nil && session.Email != "" {
		if err := n.email.SendOTPEmail(session.Email, session.OTPCode, session.ActionType); err != nil {
			log.Printf("failed to send OTP email to %s: %v", session.Email, err)
		} else {
			receipt.Email = true
		}
	}

	if n.sms != nil {
		if err := n.sms.SendOTPSMS(session.MobileNumber, session.OTPCode, session.ActionType); err != nil {
			log.Printf("failed to send OTP SMS to %s: %v", session.MobileNumber, err)
		} else {
			receipt.SMS = true
		}
	}

	return receipt
}

// SMTPEmailSender sends OTP mails through a plain SMTP relay.
type SMTPEmailSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

// NewSMTPEmailSender creates an email sender from config.
func NewSMTPEmailSender(cfg *config.Config) *SMTPEmailSender {
	return &SMTPEmailSender{
		host:     cfg.EmailHost,
		port:     cfg.EmailPort,
		user:     cfg.EmailUser,
		password: cfg.EmailPassword,
		from:     cfg.EmailFrom,
	}
}

// SendOTPEmail sends the templated OTP mail for the given action kind.
func (s *SMTPEmailSender) SendOTPEmail(to, code string, action models.OTPAction) error {
	subject, body := emailTemplate(code, action)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	return smtp.SendMail(addr, auth, s.user, []string{to}, []byte(msg.String()))
}

func emailTemplate(code string, action models.OTPAction) (subject, body string) {
	if action == models.OTPActionLogin {
		subject = "Your Login OTP for P2P Rental"
		body = fmt.Sprintf(`<html><body>
<h2>P2P Rental Login Verification</h2>
<p>Your one-time password (OTP) for login is: <strong>%s</strong></p>
<p>This OTP will expire in 10 minutes.</p>
<p>If you did not request this login, please ignore this email.</p>
</body></html>`, code)
		return subject, body
	}

	subject = "Complete Your Registration for P2P Rental"
	body = fmt.Sprintf(`<html><body>
<h2>Welcome to P2P Rental!</h2>
<p>Your one-time password (OTP) for registration is: <strong>%s</strong></p>
<p>This OTP will expire in 10 minutes.</p>
<p>If you did not attempt to register, please ignore this email.</p>
</body></html>`, code)
	return subject, body
}
