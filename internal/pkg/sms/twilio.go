package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const twilioURL = "https://api.twilio.com/2010-04-01"

// Twilio sends through the Twilio Messages API.
type Twilio struct {
	accountSID  string
	authToken   string
	from        string
	countryCode string
	baseURL     string
	client      *http.Client
}

// NewTwilio returns a Twilio sender. countryCode, without "+", is prefixed
// to numbers that are not already in E.164 form.
func NewTwilio(accountSID, authToken, from, countryCode string, client *http.Client) *Twilio {
	if client == nil {
		client = http.DefaultClient
	}
	if countryCode == "" {
		countryCode = "91"
	}
	return &Twilio{
		accountSID:  accountSID,
		authToken:   authToken,
		from:        from,
		countryCode: strings.TrimPrefix(countryCode, "+"),
		baseURL:     twilioURL,
		client:      client,
	}
}

// Send posts the message as a form.
func (t *Twilio) Send(ctx context.Context, phone, text string) error {
	to := strings.TrimSpace(phone)
	if digitsOnly(to) == "" {
		return ErrEmptyRecipient
	}
	if !strings.HasPrefix(to, "+") {
		to = "+" + t.countryCode + digitsOnly(to)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.from)
	form.Set("Body", text)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, url.PathEscape(t.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var out struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &out) == nil && out.Message != "" {
			return fmt.Errorf("twilio: status %d: %s", resp.StatusCode, out.Message)
		}
		return fmt.Errorf("twilio: status %d", resp.StatusCode)
	}

	return nil
}
