// Package push dispatches mobile push messages through an Expo-compatible
// HTTP endpoint. Delivery is fire-and-forget: callers treat every outcome as
// best effort.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"akses-lakbay/internal/config"
)

type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type service struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

func NewService(cfg *config.Config) Sender {
	return &service{
		endpoint: cfg.PushEndpoint,
		timeout:  cfg.PushTimeout,
		client:   &http.Client{},
	}
}

type pushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

func (s *service) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	payload, err := json.Marshal(pushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
	}
	return nil
}
