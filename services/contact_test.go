package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-backend/errs"
)

type recordingNotifier struct {
	channel string
	err     error
	got     []Notification
}

func (n *recordingNotifier) Channel() string { return n.channel }

func (n *recordingNotifier) Notify(_ context.Context, msg Notification) error {
	n.got = append(n.got, msg)
	return n.err
}

func validForm() ContactForm {
	return ContactForm{Name: " Ada ", Email: "ada@example.com", Message: "Let's talk"}
}

func TestContactFormValidate(t *testing.T) {
	form, err := validForm().Validate()
	require.NoError(t, err)
	assert.Equal(t, "Ada", form.Name)

	_, err = ContactForm{Email: "a@b.co", Message: "m"}.Validate()
	assert.True(t, errs.IsMissingRequiredFieldError(err))

	_, err = ContactForm{Name: "n", Email: "not-an-email", Message: "m"}.Validate()
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestContactSubmitRelaysAndNotifies(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"success":true,"message":"Email sent successfully!"}`))
	}))
	defer server.Close()

	email := &recordingNotifier{channel: "email"}
	sms := &recordingNotifier{channel: "sms", err: errors.New("twilio down")}
	contact := NewContactService(ContactConfig{RelayURL: server.URL, AccessKey: "site-key"}, email, sms)

	require.NoError(t, contact.Submit(context.Background(), validForm()))
	assert.Equal(t, "site-key", received["access_key"])
	assert.Equal(t, "Ada", received["name"])
	assert.Equal(t, "Let's talk", received["message"])

	require.Len(t, email.got, 1)
	assert.Equal(t, "ada@example.com", email.got[0].ReplyTo)
	assert.Len(t, sms.got, 1)
}

func TestContactSubmitRelayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid access key"}`))
	}))
	defer server.Close()

	email := &recordingNotifier{channel: "email"}
	contact := NewContactService(ContactConfig{RelayURL: server.URL, AccessKey: "bad"}, email)

	err := contact.Submit(context.Background(), validForm())
	assert.True(t, errs.IsUpstreamError(err))
	assert.Empty(t, email.got)
}

func TestContactSubmitWithoutAccessKey(t *testing.T) {
	contact := NewContactService(ContactConfig{RelayURL: "http://127.0.0.1:0"})
	err := contact.Submit(context.Background(), validForm())
	assert.True(t, errs.IsEnvironmentVariableError(err))
}

func TestEmailNotifier(t *testing.T) {
	assert.Nil(t, NewEmailNotifier(EmailConfig{APIKey: "k"}))

	var payload ResendEmailRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer server.Close()

	notifier := NewEmailNotifier(EmailConfig{APIKey: "re_key", FromEmail: "site@example.com", To: []string{"owner@example.com"}, Endpoint: server.URL})
	require.NotNil(t, notifier)
	require.NoError(t, notifier.Notify(context.Background(), Notification{Subject: "Hi", Body: "Body", ReplyTo: "ada@example.com"}))

	assert.Equal(t, "Bearer re_key", auth)
	assert.Equal(t, []string{"owner@example.com"}, payload.To)
	assert.Equal(t, "Body", payload.Text)
	assert.Equal(t, "ada@example.com", payload.ReplyTo)
}

func TestEmailNotifierError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	notifier := NewEmailNotifier(EmailConfig{APIKey: "k", FromEmail: "bad", To: []string{"o@example.com"}, Endpoint: server.URL})
	err := notifier.Notify(context.Background(), Notification{Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

type fakeMessages struct {
	params *twilioApi.CreateMessageParams
}

func (f *fakeMessages) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSMSNotifier(t *testing.T) {
	assert.Nil(t, NewSMSNotifier(SMSConfig{AccountSID: "AC1"}))

	fake := &fakeMessages{}
	notifier := &SMSNotifier{messages: fake, from: "+15550000000", to: "+15551111111"}
	require.NoError(t, notifier.Notify(context.Background(), Notification{Subject: "New message", Body: "hello"}))

	require.NotNil(t, fake.params)
	assert.Equal(t, "+15551111111", *fake.params.To)
	assert.Equal(t, "+15550000000", *fake.params.From)
	assert.Equal(t, "New message\nhello", *fake.params.Body)
}

func TestTruncateSMS(t *testing.T) {
	assert.Equal(t, "short", truncateSMS("short"))

	ascii := strings.Repeat("a", smsBodyLimit+10)
	assert.Len(t, truncateSMS(ascii), smsBodyLimit)

	accented := "x" + strings.Repeat("é", smsBodyLimit)
	got := truncateSMS(accented)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), smsBodyLimit)
	assert.True(t, strings.HasSuffix(got, "..."))
}
