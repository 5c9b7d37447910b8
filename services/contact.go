package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
)

const DefaultFormRelayURL = "https://api.web3forms.com/submit"

type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (f ContactForm) Validate() (ContactForm, error) {
	out := ContactForm{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
	if out.Name == "" {
		return ContactForm{}, errs.NewMissingRequiredFieldError("name")
	}
	if out.Email == "" {
		return ContactForm{}, errs.NewMissingRequiredFieldError("email")
	}
	if _, err := mail.ParseAddress(out.Email); err != nil {
		return ContactForm{}, errs.NewInvalidFieldError("email", "must be an email address")
	}
	if out.Message == "" {
		return ContactForm{}, errs.NewMissingRequiredFieldError("message")
	}
	return out, nil
}

// Notification is what the owner receives about a new contact message.
type Notification struct {
	Subject string
	Body    string
	ReplyTo string
}

// Notifier delivers a notification on one channel.
type Notifier interface {
	Channel() string
	Notify(ctx context.Context, msg Notification) error
}

type ContactConfig struct {
	RelayURL  string
	AccessKey string
	Timeout   time.Duration
}

type relayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ContactService relays contact messages to the form relay and notifies the owner.
type ContactService struct {
	relayURL  string
	accessKey string
	client    *http.Client
	notifiers []Notifier
	logger    zerolog.Logger
}

func NewContactService(cfg ContactConfig, notifiers ...Notifier) *ContactService {
	if cfg.RelayURL == "" {
		cfg.RelayURL = DefaultFormRelayURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &ContactService{
		relayURL:  cfg.RelayURL,
		accessKey: cfg.AccessKey,
		client:    &http.Client{Timeout: cfg.Timeout},
		notifiers: notifiers,
		logger:    log.With().Str("service", "contact").Logger(),
	}
}

// Submit relays form and then notifies the owner. Notification failures are logged only.
func (s *ContactService) Submit(ctx context.Context, form ContactForm) error {
	form, err := form.Validate()
	if err != nil {
		return err
	}
	if s.accessKey == "" {
		return errs.NewEnvironmentVariableError("FORM_RELAY_ACCESS_KEY")
	}
	if err := s.relay(ctx, form); err != nil {
		return err
	}

	msg := Notification{
		Subject: fmt.Sprintf("New portfolio message from %s", form.Name),
		Body:    fmt.Sprintf("From: %s <%s>\n\n%s", form.Name, form.Email, form.Message),
		ReplyTo: form.Email,
	}
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, msg); err != nil {
			s.logger.Warn().Err(errs.NewNotificationError(n.Channel(), err)).Str("channel", n.Channel()).Msg("owner notification failed")
		}
	}
	return nil
}

func (s *ContactService) relay(ctx context.Context, form ContactForm) error {
	payload, err := json.Marshal(map[string]string{
		"access_key": s.accessKey,
		"subject":    "New message from your portfolio",
		"name":       form.Name,
		"email":      form.Email,
		"message":    form.Message,
	})
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to encode contact form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.relayURL, bytes.NewReader(payload))
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to build relay request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errs.NewServiceUnreachableError("form relay", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewUnexpectedResponseError("form relay", err)
	}

	var parsed relayResponse
	_ = json.Unmarshal(body, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !parsed.Success {
		s.logger.Warn().Int("status", resp.StatusCode).Str("message", parsed.Message).Msg("form relay rejected message")
		return errs.NewUpstreamError("form relay", resp.StatusCode, string(body))
	}
	return nil
}
