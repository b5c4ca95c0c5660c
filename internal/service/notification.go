package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/LZPPS/routelink/internal/domain"
)

// Mailer delivers a plain-text message best-effort. Failures are logged
// by the caller and never affect the transaction that scheduled them.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes messages to the process log instead of sending them.
// Used when no mail API key is configured.
type LogMailer struct{}

// NewLogMailer creates a log-only mailer.
func NewLogMailer() LogMailer {
	return LogMailer{}
}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	log.Printf("[MAIL] To=%s Subject=%q\n%s", to, subject, body)
	return nil
}

// HTTPMailer delivers mail through an HTTP mail API (Resend-compatible
// JSON payload).
type HTTPMailer struct {
	Endpoint string
	APIKey   string
	From     string
	Client   *http.Client
}

// NewHTTPMailer creates a mailer against the given API endpoint.
func NewHTTPMailer(endpoint, apiKey, from string) *HTTPMailer {
	return &HTTPMailer{
		Endpoint: endpoint,
		APIKey:   apiKey,
		From:     from,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type mailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send posts the message to the mail API.
func (m *HTTPMailer) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(mailPayload{From: m.From, To: to, Subject: subject, Text: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail api returned status %d", resp.StatusCode)
	}
	return nil
}

// NotificationService composes and delivers booking lifecycle emails.
// All methods are fire-and-forget: errors are logged, never returned to
// the reservation path, and always invoked after commit.
type NotificationService struct {
	mailer Mailer
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(mailer Mailer) *NotificationService {
	return &NotificationService{mailer: mailer}
}

const whenFormat = "Jan 2, 2006 3:04 PM"

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// NotifyBookingConfirmed emails both parties after a driver confirms.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking, trip *domain.Trip, rider, driver *domain.User) {
	when := trip.RideAt.Format(whenFormat)

	riderMsg := fmt.Sprintf(
		"Hi %s,\n\nYour RouteLink booking is confirmed.\n\nTrip:\n From: %s\n To:   %s\n When: %s\n Seats: %d\n\nDriver:\n %s | %s | %s\n\nPlease coordinate pickup and timing directly.",
		rider.Name, orDash(trip.StartPlace), orDash(trip.EndPlace), when, booking.Seats,
		driver.Name, driver.Email, orDash(driver.Phone))
	s.deliver(ctx, rider.Email, "RouteLink Booking Confirmed", riderMsg)

	driverMsg := fmt.Sprintf(
		"Hi %s,\n\nA rider just booked your RouteLink trip.\n\nTrip:\n From: %s\n To:   %s\n When: %s\n Seats booked: %d\n\nRider:\n %s | %s | %s\n\nPlease reach out to coordinate pickup.",
		driver.Name, orDash(trip.StartPlace), orDash(trip.EndPlace), when, booking.Seats,
		rider.Name, rider.Email, orDash(rider.Phone))
	s.deliver(ctx, driver.Email, "New Rider Booked Your Trip", driverMsg)
}

// NotifyBookingDeclined emails the rider after a driver declines.
func (s *NotificationService) NotifyBookingDeclined(ctx context.Context, trip *domain.Trip, rider, driver *domain.User) {
	msg := fmt.Sprintf(
		"Hi %s,\n\nYour booking request was declined by the driver.\n\nTrip:\n From: %s\n To:   %s\n When: %s\n\nDriver:\n %s | %s | %s\n",
		rider.Name, orDash(trip.StartPlace), orDash(trip.EndPlace), trip.RideAt.Format(whenFormat),
		driver.Name, driver.Email, orDash(driver.Phone))
	s.deliver(ctx, rider.Email, "RouteLink Booking Declined", msg)
}

// NotifyBookingCancelled emails the driver after a rider cancels a
// confirmed booking.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking, trip *domain.Trip, rider, driver *domain.User) {
	msg := fmt.Sprintf(
		"Hi %s,\n\nThe rider canceled a confirmed booking.\n\nTrip:\n From: %s\n To:   %s\n When: %s\n Seats freed: %d\n\nRider:\n %s | %s | %s\n",
		driver.Name, orDash(trip.StartPlace), orDash(trip.EndPlace), trip.RideAt.Format(whenFormat),
		booking.Seats, rider.Name, rider.Email, orDash(rider.Phone))
	s.deliver(ctx, driver.Email, "RouteLink Booking Canceled by Rider", msg)
}

func (s *NotificationService) deliver(ctx context.Context, to, subject, body string) {
	if to == "" {
		return
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		log.Printf("notification: send to %s failed: %v", to, err)
	}
}
