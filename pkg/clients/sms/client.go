// Package sms is a thin client for the Kavenegar SMS gateway, used to text
// customers when their booking is confirmed.
package sms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client exposes the single send operation the services need.
type Client interface {
	Send(ctx context.Context, receptor, message string) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	sender     string
}

// Config carries the gateway credentials.
type Config struct {
	BaseURL string
	APIKey  string
	Sender  string
}

// NewClient builds an SMS client from the provided configuration.
func NewClient(cfg Config) *APIClient {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.kavenegar.com"
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/v1/%s", base, cfg.APIKey)).
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		sender:     cfg.Sender,
	}
}

type sendResponse struct {
	Return struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"return"`
}

// Send delivers one text message to receptor.
func (c *APIClient) Send(ctx context.Context, receptor, message string) error {
	result := new(sendResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"receptor": receptor,
			"sender":   c.sender,
			"message":  message,
		}).
		SetResult(result).
		SetError(result).
		Get("/sms/send.json")
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest || (result.Return.Status != 0 && result.Return.Status != http.StatusOK) {
		return fmt.Errorf("sms gateway error: code=%d, message=%s", result.Return.Status, result.Return.Message)
	}

	return nil
}
