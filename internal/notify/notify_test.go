package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recorder) record(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
	return r.err
}

func (r *recorder) SendMail(_ context.Context, to, subject, _ string) error {
	return r.record("mail:" + to + ":" + subject)
}

func (r *recorder) SendSMS(_ context.Context, to, body string) error {
	return r.record("sms:" + to + ":" + body)
}

func (r *recorder) Alert(_ context.Context, text string) error {
	return r.record("alert:" + text)
}

func TestDispatcher_DeliversOnAllChannels(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec, rec, rec, zap.NewNop(), time.Second)

	d.Email("a@example.com", "Hello", "body")
	d.SMS("9876543210", "hi")
	d.AlertOffice("new complaint")
	d.Wait()

	assert.ElementsMatch(t, []string{
		"mail:a@example.com:Hello",
		"sms:9876543210:hi",
		"alert:new complaint",
	}, rec.calls)
}

func TestDispatcher_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := &recorder{err: errors.New("smtp down")}
	d := NewDispatcher(rec, nil, nil, zap.New(core), time.Second)

	d.Email("a@example.com", "Hello", "body")
	d.SMS("9876543210", "skipped")
	d.AlertOffice("skipped")
	d.Wait()

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "notification failed", entry.Message)
	assert.Equal(t, "email", entry.ContextMap()["channel"])
	assert.Len(t, rec.calls, 1)
}

// rewriteTransport sends every request to target, keeping the path.
type rewriteTransport struct {
	target *url.URL
	next   http.RoundTripper
}

func (rt rewriteTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return rt.next.RoundTrip(r)
}

func twilioTestClient(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return &http.Client{Transport: rewriteTransport{target: target, next: http.DefaultTransport}}
}

func TestTwilioTexter_SendSMS(t *testing.T) {
	var gotForm url.Values
	var gotUser, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		raw, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(raw))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer srv.Close()

	tx := NewTwilioTexterWithClient("AC123", "secret", "+15005550006", "+91", twilioTestClient(t, srv))

	err := tx.SendSMS(context.Background(), "9876543210", "Your OTP is 123456")

	require.NoError(t, err)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "+919876543210", gotForm.Get("To"))
	assert.Equal(t, "+15005550006", gotForm.Get("From"))
	assert.Equal(t, "Your OTP is 123456", gotForm.Get("Body"))
}

func TestTwilioTexter_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number","status":400}`))
	}))
	defer srv.Close()

	tx := NewTwilioTexterWithClient("AC123", "secret", "+15005550006", "+91", twilioTestClient(t, srv))

	err := tx.SendSMS(context.Background(), "+1", "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid 'To' Phone Number")
}

func TestTwilioTexter_CancelledContext(t *testing.T) {
	tx := NewTwilioTexter("AC123", "secret", "+15005550006", "+91")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, tx.SendSMS(ctx, "9876543210", "hi"), context.Canceled)
}

func TestTwilioTexter_MissingCredentials(t *testing.T) {
	tx := NewTwilioTexter("", "", "", "+91")
	assert.Error(t, tx.SendSMS(context.Background(), "9876543210", "hi"))
}

func TestTwilioTexter_E164(t *testing.T) {
	tx := NewTwilioTexter("", "", "", "+91")
	assert.Equal(t, "+919876543210", tx.E164("9876543210"))
	assert.Equal(t, "+14155550100", tx.E164(" +14155550100 "))
}

func TestBuildMessage(t *testing.T) {
	m := &SMTPMailer{Username: "office@example.com", DisplayName: "MLA Connect"}
	date := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	raw := string(buildMessage(m.from(), "citizen@example.com", "Your Password Reset OTP", "line one\nline two", date))

	assert.Contains(t, raw, "From: \"MLA Connect\" <office@example.com>\r\n")
	assert.Contains(t, raw, "To: citizen@example.com\r\n")
	assert.Contains(t, raw, "Subject: Your Password Reset OTP\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nline one\r\nline two"))
}

func TestSMTPMailer_NotConfigured(t *testing.T) {
	m := &SMTPMailer{}
	assert.Error(t, m.SendMail(context.Background(), "a@example.com", "s", "b"))
}

type fakeBot struct {
	sent []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestTelegramAlerter_Alert(t *testing.T) {
	bot := &fakeBot{}
	a := &TelegramAlerter{bot: bot, chatID: -100123}

	require.NoError(t, a.Alert(context.Background(), "New complaint from Asha"))

	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "New complaint from Asha", msg.Text)
}

func TestTelegramAlerter_CancelledContext(t *testing.T) {
	bot := &fakeBot{}
	a := &TelegramAlerter{bot: bot, chatID: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, a.Alert(ctx, "x"), context.Canceled)
	assert.Empty(t, bot.sent)
}
