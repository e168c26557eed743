package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioTexter sends SMS through Twilio's Messages resource.
type TwilioTexter struct {
	AccountSID  string
	From        string
	CountryCode string

	token string
	rest  *twilio.RestClient
}

func NewTwilioTexter(sid, token, from, countryCode string) *TwilioTexter {
	return NewTwilioTexterWithClient(sid, token, from, countryCode, &http.Client{Timeout: 10 * time.Second})
}

// NewTwilioTexterWithClient routes API calls through hc.
func NewTwilioTexterWithClient(sid, token, from, countryCode string, hc *http.Client) *TwilioTexter {
	base := &twclient.Client{
		Credentials: twclient.NewCredentials(sid, token),
		HTTPClient:  hc,
	}
	base.SetAccountSid(sid)

	return &TwilioTexter{
		AccountSID:  sid,
		From:        from,
		CountryCode: countryCode,
		token:       token,
		rest:        twilio.NewRestClientWithParams(twilio.ClientParams{Client: base}),
	}
}

// E164 prefixes numbers that lack a leading '+' with the default country code.
func (t *TwilioTexter) E164(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "+") {
		return number
	}
	return t.CountryCode + number
}

func (t *TwilioTexter) SendSMS(ctx context.Context, to, body string) error {
	if t.AccountSID == "" || t.token == "" || t.From == "" {
		return errors.New("twilio: credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twapi.CreateMessageParams{}
	params.SetPathAccountSid(t.AccountSID)
	params.SetTo(t.E164(to))
	params.SetFrom(t.From)
	params.SetBody(body)

	if _, err := t.rest.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	return nil
}
