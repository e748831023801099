// Package llm provides a streaming client for OpenAI-compatible chat
// completion APIs (Groq by default).
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message is one chat message sent to the model.
type Message struct {
	Role    string `json:"role"` // system | user | assistant
	Content string `json:"content"`
}

// Fragment is one streamed piece of the model's answer. A Fragment with a
// non-nil Err terminates the stream; fragments already delivered before it
// stay delivered.
type Fragment struct {
	Content string
	Err     error
}

// Streamer produces a finite, non-restartable stream of answer fragments.
type Streamer interface {
	StreamChat(ctx context.Context, messages []Message) (<-chan Fragment, error)
}

// Config holds fixed generation parameters for a Client. They are set once
// per client, not re-negotiated per call.
type Config struct {
	APIBase     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Client calls an OpenAI-compatible /chat/completions endpoint with
// streaming enabled.
type Client struct {
	apiBase     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	logger      *zap.Logger
}

// NewClient creates a client with the given fixed generation parameters.
func NewClient(cfg Config) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.groq.com/openai/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		apiBase:     strings.TrimRight(cfg.APIBase, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		// The wall-clock timeout covers the whole streaming call: the client
		// fails fast instead of hanging on a stalled backend.
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stream      bool      `json:"stream"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// StreamChat submits messages and returns a channel of answer fragments.
// The channel is closed by the producer when the stream ends or fails; a
// failure is delivered as a final Fragment carrying a *GenerationError.
// Errors before any fragment is produced are returned directly.
func (c *Client) StreamChat(ctx context.Context, messages []Message) (<-chan Fragment, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: &c.temperature,
		Stream:      true,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &GenerationError{Op: "request", Err: fmt.Errorf("marshal: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &GenerationError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &GenerationError{Op: "request", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &GenerationError{
			Op:         "status",
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(respBody))),
		}
	}

	ch := make(chan Fragment, 64)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "[DONE]" {
				c.logger.Debug("stream complete",
					zap.String("model", c.model),
					zap.Duration("elapsed", time.Since(start)),
				)
				return
			}
			var chunk chatStreamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				ch <- Fragment{Err: &GenerationError{Op: "decode", Err: err}}
				return
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			if content := chunk.Choices[0].Delta.Content; content != "" {
				select {
				case ch <- Fragment{Content: content}:
				case <-ctx.Done():
					ch <- Fragment{Err: &GenerationError{Op: "stream", Err: ctx.Err()}}
					return
				}
			}
			if chunk.Choices[0].FinishReason != "" {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			ch <- Fragment{Err: &GenerationError{Op: "stream", Err: err}}
		}
	}()
	return ch, nil
}

// Model returns the model identifier this client calls.
func (c *Client) Model() string {
	return c.model
}
