package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// smsBodyLimit keeps notifications within a few SMS segments.
const smsBodyLimit = 480

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

// SMSNotifier texts the owner through Twilio.
type SMSNotifier struct {
	messages messageCreator
	from     string
	to       string
}

// NewSMSNotifier returns nil unless every Twilio setting is present.
func NewSMSNotifier(cfg SMSConfig) *SMSNotifier {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" || cfg.To == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSNotifier{messages: client.Api, from: cfg.From, to: cfg.To}
}

func (n *SMSNotifier) Channel() string { return "sms" }

func (n *SMSNotifier) Notify(_ context.Context, msg Notification) error {
	body := truncateSMS(fmt.Sprintf("%s\n%s", msg.Subject, msg.Body))

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(body)

	resp, err := n.messages.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send sms via Twilio: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Info().Str("messageSid", *resp.Sid).Msg("Successfully sent sms via Twilio")
	}
	return nil
}

// truncateSMS cuts body to smsBodyLimit bytes on a rune boundary.
func truncateSMS(body string) string {
	if len(body) <= smsBodyLimit {
		return body
	}
	i := smsBodyLimit - 3
	for i > 0 && !utf8.RuneStart(body[i]) {
		i--
	}
	return body[:i] + "..."
}
