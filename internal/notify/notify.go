// Package notify delivers customer-facing alerts over mock email and SMS
// channels. Delivery runs on a small worker pool fed by a buffered queue so
// ledger operations never block on a slow channel.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

type Message struct {
	Channel   Channel
	Recipient string
	Subject   string
	Body      string
	CreatedAt time.Time
}

type EmailSender interface {
	SendEmail(to, subject, body string) error
}

type SMSSender interface {
	SendSMS(to, message string) error
}

type Service struct {
	email        EmailSender
	sms          SMSSender
	queue        chan Message
	workers      int
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	logger       *slog.Logger
}

func NewService(email EmailSender, sms SMSSender, workers int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 1
	}

	s := &Service{
		email:        email,
		sms:          sms,
		queue:        make(chan Message, 256),
		workers:      workers,
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}
	s.startWorkers()
	return s
}

// ConfirmOperation queues a receipt notification for a completed ledger
// operation.
func (s *Service) ConfirmOperation(ctx context.Context, recipient, operation string, amount float64, reference string) error {
	body := fmt.Sprintf("Your %s has been processed. Reference: %s.", operation, reference)
	if amount > 0 {
		body = fmt.Sprintf("Your %s of $%.2f has been processed. Reference: %s.", operation, amount, reference)
	}

	return s.enqueue(ctx, Message{
		Channel:   ChannelEmail,
		Recipient: recipient,
		Subject:   "Katalian Bank operation confirmation",
		Body:      body,
		CreatedAt: time.Now(),
	})
}

// SecurityAlert queues an urgent notice on both channels. Lockdown and
// suspicious-activity reports go through here.
func (s *Service) SecurityAlert(ctx context.Context, recipient, event string) error {
	body := fmt.Sprintf("Security notice for your Katalian Bank profile: %s. If this was not you, contact support immediately.", event)

	for _, msg := range []Message{
		{Channel: ChannelEmail, Recipient: recipient, Subject: "Katalian Bank security notice", Body: body, CreatedAt: time.Now()},
		{Channel: ChannelSMS, Recipient: recipient, Body: body, CreatedAt: time.Now()},
	} {
		if err := s.enqueue(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) enqueue(ctx context.Context, msg Message) error {
	select {
	case s.queue <- msg:
		s.logger.Info("Notification queued",
			slog.String("channel", string(msg.Channel)),
			slog.String("recipient", msg.Recipient))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) startWorkers() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

func (s *Service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case msg := <-s.queue:
			s.deliver(msg, id)
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *Service) deliver(msg Message, workerID int) {
	var err error
	switch msg.Channel {
	case ChannelEmail:
		err = s.email.SendEmail(msg.Recipient, msg.Subject, msg.Body)
	case ChannelSMS:
		err = s.sms.SendSMS(msg.Recipient, msg.Body)
	default:
		err = fmt.Errorf("unknown channel: %s", msg.Channel)
	}

	if err != nil {
		s.logger.Error("Failed to deliver notification",
			slog.String("channel", string(msg.Channel)),
			slog.String("recipient", msg.Recipient),
			slog.String("error", err.Error()),
			slog.Int("worker_id", workerID))
		return
	}
	s.logger.Info("Notification delivered",
		slog.String("channel", string(msg.Channel)),
		slog.String("recipient", msg.Recipient),
		slog.Int("worker_id", workerID))
}

func (s *Service) Shutdown(ctx context.Context) error {
	close(s.shutdownChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Notification service shutdown complete")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MockEmailSender records sent mail; the simulation has no real mail relay.
type MockEmailSender struct {
	mu        sync.Mutex
	SentMails []Message
}

func (m *MockEmailSender) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMails = append(m.SentMails, Message{Channel: ChannelEmail, Recipient: to, Subject: subject, Body: body})
	return nil
}

func (m *MockEmailSender) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentMails)
}

type MockSMSSender struct {
	mu      sync.Mutex
	SentSMS []Message
}

func (m *MockSMSSender) SendSMS(to, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentSMS = append(m.SentSMS, Message{Channel: ChannelSMS, Recipient: to, Body: message})
	return nil
}

func (m *MockSMSSender) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentSMS)
}
