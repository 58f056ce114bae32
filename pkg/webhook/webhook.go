package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// sendWithRetry posts the payload, retrying on failure with a fixed delay.
func (s *sender) sendWithRetry(ctx context.Context, url string, payload *Payload) error {
	var lastErr error

	for attempt := 0; attempt <= s.config.RetryCount; attempt++ {
		if attempt > 0 {
			if s.l != nil {
				s.l.Infof(ctx, "pkg.webhook.sendWithRetry: retrying attempt %d/%d", attempt, s.config.RetryCount)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.config.RetryDelay):
			}
		}

		err := s.sendRequest(ctx, url, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		if s.l != nil {
			s.l.Warnf(ctx, "pkg.webhook.sendWithRetry: attempt %d failed: %v", attempt+1, err)
		}
	}

	return fmt.Errorf("failed after %d attempts, last error: %w", s.config.RetryCount+1, lastErr)
}

func (s *sender) sendRequest(ctx context.Context, url string, payload *Payload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "jobs-srv/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (s *sender) validateEmbedLength(embed *Embed) error {
	totalLength := len(embed.Title) + len(embed.Description)
	for _, field := range embed.Fields {
		totalLength += len(field.Name) + len(field.Value)
	}

	if totalLength > MaxEmbedLength {
		return fmt.Errorf("embed too long: %d characters (max: %d)", totalLength, MaxEmbedLength)
	}
	return nil
}

func colorForType(msgType MessageType) int {
	switch msgType {
	case MessageTypeSuccess:
		return ColorSuccess
	case MessageTypeWarning:
		return ColorWarning
	case MessageTypeError:
		return ColorError
	default:
		return ColorInfo
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// Send posts a simple text message.
func (s *sender) Send(ctx context.Context, url string, content string) error {
	if len(content) > MaxMessageLength {
		return fmt.Errorf("message too long: %d characters (max: %d)", len(content), MaxMessageLength)
	}

	payload := &Payload{
		Content:  content,
		Username: s.config.DefaultUsername,
	}

	return s.sendWithRetry(ctx, url, payload)
}

// SendEmbed posts an embed message built from options.
func (s *sender) SendEmbed(ctx context.Context, url string, options MessageOptions) error {
	embed := &Embed{
		Title:       truncate(options.Title, MaxTitleLength),
		Description: truncate(options.Description, MaxDescLength),
		Color:       colorForType(options.Type),
		Fields:      options.Fields,
		Footer:      options.Footer,
	}

	if !options.Timestamp.IsZero() {
		embed.Timestamp = options.Timestamp.Format(time.RFC3339)
	}

	if err := s.validateEmbedLength(embed); err != nil {
		return err
	}

	payload := &Payload{
		Embeds:   []Embed{*embed},
		Username: options.Username,
	}
	if payload.Username == "" {
		payload.Username = s.config.DefaultUsername
	}

	return s.sendWithRetry(ctx, url, payload)
}
