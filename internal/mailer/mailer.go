package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends the notification that a new apartment listing went live.
type Mailer interface {
	SendApartmentCreatedEmail(toEmail, title string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Email    string
	Password string
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendApartmentCreatedEmail(toEmail, title string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Email)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "New Listing Created")
	msg.SetBody("text/plain", fmt.Sprintf("Your listing %q has been created successfully.", title))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Email, m.cfg.Password)
	return d.DialAndSend(msg)
}
