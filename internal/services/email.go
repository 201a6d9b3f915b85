package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dimitrije/maintenance-api/internal/config"
	"github.com/dimitrije/maintenance-api/internal/notify"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(s.compose(to, subject, body)))
}

func (s *EmailService) compose(to, subject, body string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)
}

var eventSubjects = map[notify.EventType]string{
	notify.EventRequestCreated:    "New maintenance request",
	notify.EventRequestAssigned:   "Maintenance request assigned to you",
	notify.EventStageChanged:      "Maintenance request updated",
	notify.EventEquipmentScrapped: "Equipment scrapped",
}

// SendRequestEvent mails a short notice linking to the affected request or equipment.
func (s *EmailService) SendRequestEvent(to, eventType, stage, link string) error {
	subject, ok := eventSubjects[notify.EventType(eventType)]
	if !ok {
		subject = "Maintenance update"
	}

	var status string
	if stage != "" {
		status = fmt.Sprintf("<p>Current stage: <strong>%s</strong></p>", strings.ReplaceAll(stage, "_", " "))
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>%s</h2>
			%s
			<p><a href="%s">Open in the maintenance portal</a></p>
		</body>
		</html>
	`, subject, status, link)

	return s.Send(to, subject, body)
}
