package service

import (
	"fmt"
	"html"

	"thrive/config"
	"thrive/models"

	"gopkg.in/gomail.v2"
)

// MailService sends account notifications over SMTP.
type MailService struct {
	cfg  config.EmailConfig
	send func(m *gomail.Message) error
}

// NewMailService creates the mail service.
func NewMailService(cfg config.EmailConfig) *MailService {
	s := &MailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// Enabled reports whether SMTP delivery is configured on.
func (s *MailService) Enabled() bool {
	return s.cfg.Enabled
}

// GoalReached congratulates the owner of a goal that hit its target. No-op when mail is disabled.
func (s *MailService) GoalReached(user *models.User, goal *models.SavingsGoal) error {
	if !s.cfg.Enabled {
		return nil
	}
	if user == nil || user.Email == "" {
		return fmt.Errorf("goal %d: owner has no email", goal.ID)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from(), "Thrive"))
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", fmt.Sprintf("You reached your goal: %s", goal.Title))
	m.SetBody("text/html", goalReachedBody(user.Name, goal))

	return s.send(m)
}

func (s *MailService) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.Username
}

func (s *MailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func goalReachedBody(name string, goal *models.SavingsGoal) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>Congratulations, %s!</h2>
    <p>You saved <strong>%.2f</strong> towards <strong>%s</strong> and reached your target of %.2f.</p>
    <p style="color: #666;">Thrive</p>
</body>
</html>
`, html.EscapeString(name), goal.CurrentAmount, html.EscapeString(goal.Title), goal.TargetAmount)
}
