package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// APIEmailService invia tramite il provider hosted (HTTP + API key).
type APIEmailService struct {
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewAPIEmailService(apiURL, apiKey, from string) (*APIEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("email API key is not configured")
	}

	return &APIEmailService{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

var _ EmailService = (*APIEmailService)(nil)

type apiSendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (s *APIEmailService) Send(ctx context.Context, msg Message) error {
	if err := ValidateAddress(msg.To); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = s.from
	}

	body, err := json.Marshal(apiSendRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		log.Error().
			Int("status", resp.StatusCode).
			Str("to", msg.To).
			Msg("Email dispatch rejected by provider")

		return &DispatchError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("Email dispatched")

	return nil
}
