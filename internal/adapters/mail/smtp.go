package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/taskora/taskora/internal/infra/config"
)

// SMTPSender dispatches account e-mail over SMTP. Sending happens inside the
// request that triggered it; a failing mail provider surfaces to the caller.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password reset")
	m.SetBody("text/plain", fmt.Sprintf(
		"You requested a password reset.\n\n"+
			"Open the link below to choose a new password. The link is valid for a limited time and can be used once.\n\n"+
			"%s\n\n"+
			"If you did not request this, you can ignore this message.\n", resetURL))

	return s.dialer.DialAndSend(m)
}
