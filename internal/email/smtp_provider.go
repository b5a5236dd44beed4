package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider отправляет письма через gomail
type SMTPProvider struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewSMTPProvider(cfg Config) *SMTPProvider {
	return &SMTPProvider{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (p *SMTPProvider) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.FromEmail, p.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func (p *SMTPProvider) SendWelcome(to, name string) error {
	body, err := render("welcome", map[string]interface{}{"Name": name})
	if err != nil {
		return err
	}
	return p.send(to, "Welcome to RupeeStream", body)
}

func (p *SMTPProvider) SendCompletionReviewed(to, name, taskTitle string, approved bool, reason string) error {
	subject := "Your task was approved"
	if !approved {
		subject = "Your task was rejected"
	}
	body, err := render("completion_reviewed", map[string]interface{}{
		"Name":      name,
		"TaskTitle": taskTitle,
		"Approved":  approved,
		"Reason":    reason,
	})
	if err != nil {
		return err
	}
	return p.send(to, subject, body)
}

func (p *SMTPProvider) SendPayoutProcessed(to, name, amount string) error {
	body, err := render("payout_processed", map[string]interface{}{
		"Name":   name,
		"Amount": amount,
	})
	if err != nil {
		return err
	}
	return p.send(to, "Your payout is on its way", body)
}

func (p *SMTPProvider) SendAccountSuspended(to, name, reason string) error {
	body, err := render("account_suspended", map[string]interface{}{
		"Name":   name,
		"Reason": reason,
	})
	if err != nil {
		return err
	}
	return p.send(to, "Your account was suspended", body)
}
