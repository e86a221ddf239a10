package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	customerIOTrackUS = "https://track.customer.io"
	customerIOTrackEU = "https://track-eu.customer.io"
)

// CustomerIOMailer sends through the Customer.io Track API: the recipient is
// upserted as a customer first, then the message is sent to that customer.
type CustomerIOMailer struct {
	siteID  string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewCustomerIOMailer(siteID, apiKey, region string) *CustomerIOMailer {
	base := customerIOTrackUS
	if region == "eu" {
		base = customerIOTrackEU
	}
	return &CustomerIOMailer{
		siteID:  siteID,
		apiKey:  apiKey,
		baseURL: base,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (m *CustomerIOMailer) Name() string { return "customer.io" }

func (m *CustomerIOMailer) Send(ctx context.Context, msg Message) error {
	if m.siteID == "" || m.apiKey == "" {
		return fmt.Errorf("customer.io credentials are not configured")
	}
	if msg.CustomerID == "" {
		return fmt.Errorf("customer.io: missing customer id")
	}

	customer := "/api/v1/customers/" + url.PathEscape(msg.CustomerID)
	if err := m.call(ctx, http.MethodPut, customer, map[string]interface{}{"email": msg.To}); err != nil {
		return err
	}

	body := msg.Text
	if msg.HTML != "" {
		body = msg.HTML
	}
	payload := map[string]interface{}{
		"message_data": map[string]interface{}{
			"to":      msg.To,
			"subject": msg.Subject,
			"body":    body,
		},
	}
	return m.call(ctx, http.MethodPost, customer+"/messages", payload)
}

func (m *CustomerIOMailer) call(ctx context.Context, method, path string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(m.siteID, m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("customer.io API error (status %d): %s", resp.StatusCode, bytes.TrimSpace(bodyBytes))
	}
	return nil
}
