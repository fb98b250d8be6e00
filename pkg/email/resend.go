package email

import (
	"fmt"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"

	"github.com/eventsphere/backend/internal/config"
)

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewEmailService(cfg config.EmailConfig, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(cfg.APIKey),
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
		logger:   logger,
	}
}

func (s *EmailService) SendWelcomeEmail(to, username string) error {
	html := fmt.Sprintf(
		"<h2>Welcome to EventSphere, %s!</h2><p>Your account is ready. Discover events near you and RSVP to the ones you love.</p>",
		username,
	)
	return s.send(to, "Welcome to EventSphere!", html)
}

func (s *EmailService) SendEventApprovedEmail(to, title, location string, date time.Time) error {
	html := fmt.Sprintf(
		"<h2>Your event has been approved!</h2><p>Congratulations! Your event '%s' has been approved and is now visible on EventSphere.</p><p>Date: %s<br>Location: %s</p>",
		title, date.Format("January 2, 2006"), location,
	)
	return s.send(to, fmt.Sprintf("Your event '%s' has been approved!", title), html)
}

func (s *EmailService) SendEventRejectedEmail(to, title string) error {
	html := fmt.Sprintf(
		"<h2>Your event has been rejected</h2><p>Unfortunately, your event '%s' has been rejected. If you'd like more information, please contact the admin team.</p>",
		title,
	)
	return s.send(to, fmt.Sprintf("Your event '%s' has been rejected", title), html)
}

func (s *EmailService) SendRSVPConfirmationEmail(to, title, status string) error {
	html := fmt.Sprintf(
		"<h2>RSVP received</h2><p>Your RSVP for '%s' has been recorded as <strong>%s</strong>.</p>",
		title, status,
	)
	return s.send(to, fmt.Sprintf("RSVP confirmed for '%s'", title), html)
}

func (s *EmailService) SendRSVPCancellationEmail(to, title string) error {
	html := fmt.Sprintf(
		"<h2>RSVP cancelled</h2><p>Your RSVP for '%s' has been cancelled.</p>",
		title,
	)
	return s.send(to, fmt.Sprintf("RSVP cancelled for '%s'", title), html)
}

func (s *EmailService) SendEventCancelledEmail(to, title string, date time.Time) error {
	html := fmt.Sprintf(
		"<h2>Event cancelled</h2><p>We're sorry, '%s' scheduled for %s has been cancelled by the organizer.</p>",
		title, date.Format("January 2, 2006"),
	)
	return s.send(to, fmt.Sprintf("'%s' has been cancelled", title), html)
}

func (s *EmailService) send(to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Warn("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("id", resp.Id),
	)
	return nil
}
