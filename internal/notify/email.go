package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/config"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

const defaultBrevoURL = "https://api.brevo.com/v3/smtp/email"

// EmailSink sends transactional mail through the Brevo HTTP API.
// When no API key is configured it degrades to logging only.
type EmailSink struct {
	apiKey     string
	sender     string
	senderName string
	endpoint   string
	http       *http.Client
}

func NewEmailSink(cfg *config.Config) *EmailSink {
	return &EmailSink{
		apiKey:     cfg.BrevoAPIKey,
		sender:     cfg.EmailSender,
		senderName: cfg.EmailSenderName,
		endpoint:   defaultBrevoURL,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (s *EmailSink) Deliver(ev Event) error {
	ap := ev.Appointment

	subject, body := renderEmail(ev)

	recipients := []models.User{ap.Patient}
	if ap.Doctor.User.Email != "" {
		recipients = append(recipients, ap.Doctor.User)
	}

	for _, rcpt := range recipients {
		if rcpt.Email == "" {
			continue
		}
		if s.apiKey == "" {
			log.Printf("notify: email disabled, would send %q to %s", subject, rcpt.Email)
			continue
		}
		if err := s.send(rcpt, subject, body); err != nil {
			return err
		}
	}

	return nil
}

func (s *EmailSink) send(to models.User, subject, body string) error {
	payload, err := json.Marshal(brevoPayload{
		Sender: map[string]string{"email": s.sender, "name": s.senderName},
		To: []map[string]string{
			{"email": to.Email, "name": to.FullName()},
		},
		Subject:     subject,
		HTMLContent: body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("brevo returned status %d", resp.StatusCode)
	}
	return nil
}

func renderEmail(ev Event) (subject, body string) {
	ap := ev.Appointment
	when := ap.StartTime.Format("Mon, 02 Jan 2006 15:04")

	switch ev.Type {
	case EventBookingConfirmed:
		subject = "Your appointment is booked"
		body = fmt.Sprintf("<p>Appointment %s is booked for %s.</p>", ap.AppointmentNumber, when)
	case EventAppointmentConfirmed:
		subject = "Your appointment is confirmed"
		body = fmt.Sprintf("<p>Appointment %s on %s has been confirmed by the doctor.</p>", ap.AppointmentNumber, when)
	case EventAppointmentCancelled:
		subject = "Your appointment was cancelled"
		body = fmt.Sprintf("<p>Appointment %s scheduled for %s was cancelled.</p>", ap.AppointmentNumber, when)
	case EventAppointmentRescheduled:
		subject = "Your appointment was rescheduled"
		body = fmt.Sprintf("<p>Appointment %s has been moved to %s.</p>", ap.AppointmentNumber, when)
	case EventAppointmentCompleted:
		subject = "Appointment completed"
		body = fmt.Sprintf("<p>Appointment %s has been completed. Thank you.</p>", ap.AppointmentNumber)
	case EventAppointmentReminder:
		subject = "Reminder: your appointment starts soon"
		body = fmt.Sprintf("<p>Appointment %s starts at %s.</p>", ap.AppointmentNumber, when)
	default:
		subject = "Appointment update"
		body = fmt.Sprintf("<p>Appointment %s was updated.</p>", ap.AppointmentNumber)
	}
	return subject, body
}
