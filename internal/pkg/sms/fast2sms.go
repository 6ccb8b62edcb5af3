package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const fast2smsURL = "https://www.fast2sms.com/dev/bulkV2"

// Fast2SMS sends through the Fast2SMS quick route.
type Fast2SMS struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewFast2SMS returns a Fast2SMS sender.
func NewFast2SMS(apiKey string, client *http.Client) *Fast2SMS {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fast2SMS{apiKey: apiKey, baseURL: fast2smsURL, client: client}
}

type fast2smsRequest struct {
	Route    string `json:"route"`
	Message  string `json:"message"`
	Language string `json:"language"`
	Flash    int    `json:"flash"`
	Numbers  string `json:"numbers"`
}

type fast2smsResponse struct {
	Return  bool `json:"return"`
	Message any  `json:"message"`
}

// Send posts the message. Fast2SMS takes national numbers, so a leading
// "+91" is stripped before the remaining digits are sent.
func (f *Fast2SMS) Send(ctx context.Context, phone, text string) error {
	number := digitsOnly(trimIndianPrefix(phone))
	if number == "" {
		return ErrEmptyRecipient
	}

	body, err := json.Marshal(fast2smsRequest{
		Route:    "q",
		Message:  text,
		Language: "english",
		Flash:    0,
		Numbers:  number,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("authorization", f.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fast2sms: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("fast2sms: status %d: %s", resp.StatusCode, raw)
	}

	var out fast2smsResponse
	if err := json.Unmarshal(raw, &out); err == nil && !out.Return {
		return fmt.Errorf("fast2sms: rejected: %v", out.Message)
	}

	return nil
}

func trimIndianPrefix(phone string) string {
	if len(phone) > 3 && phone[:3] == "+91" {
		return phone[3:]
	}
	return phone
}
