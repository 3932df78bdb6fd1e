// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/elia-tui/internal/model"
)

// =============================================================================
// STREAMING TYPES
// =============================================================================

// streamChunk is a single chunk of a streaming completion.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *streamChunk) content() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

func (c *streamChunk) done() bool {
	return len(c.Choices) > 0 && c.Choices[0].FinishReason != nil && *c.Choices[0].FinishReason != ""
}

// StreamError is a failure part way through a stream. Partial holds the
// content received before the error.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// =============================================================================
// SSE READER
// =============================================================================

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReader(r)}
}

// ReadEvent reads the next event and returns its type and data. Multi-line
// data fields are joined with "\n". Returns io.EOF when the stream ends.
func (s *SSEReader) ReadEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return "", nil, err
		}
		eof := err == io.EOF

		line = bytes.TrimRight(line, "\r\n")

		switch {
		case len(line) == 0:
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
		case bytes.HasPrefix(line, []byte("event:")):
			eventType = string(bytes.TrimSpace(line[6:]))
		case bytes.HasPrefix(line, []byte("data:")):
			dataLines = append(dataLines, bytes.TrimPrefix(line[5:], []byte(" ")))
		}
		// id:, retry: and ":" comments are ignored.

		if eof {
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			return "", nil, io.EOF
		}
	}
}

// =============================================================================
// STREAMING COMPLETION
// =============================================================================

// Stream is Complete with incremental delivery: onDelta receives each piece
// of content as it arrives, on the calling goroutine. The full reply is
// returned once the provider finishes. Streams are not retried; a failure
// after the first byte is a *StreamError carrying the partial reply.
func (c *Client) Stream(ctx context.Context, m model.ModelConfig, messages []model.ChatMessage, onDelta func(string)) (string, error) {
	ep, err := c.endpointFor(m)
	if err != nil {
		return "", err
	}

	bodyBytes, err := json.Marshal(chatRequest{
		Model:       ep.model,
		Messages:    toWire(messages),
		Temperature: m.Temperature,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, ep)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := readResponse(resp)
		return "", handleErrorResponse(resp.StatusCode, body)
	}

	reply, err := processStream(ctx, resp.Body, onDelta)
	if err != nil {
		c.logger.Warn("stream failed", zap.Object("model", m), zap.Int("partial_chars", len(reply)), zap.Error(err))
		return reply, &StreamError{Partial: reply, Err: err}
	}
	c.logger.Debug("stream finished",
		zap.Object("model", m),
		zap.Int("chars", len(reply)),
		zap.Duration("elapsed", time.Since(start)))
	return reply, nil
}

// processStream reads SSE chunks until [DONE], a finish reason or EOF.
func processStream(ctx context.Context, body io.Reader, onDelta func(string)) (string, error) {
	reader := NewSSEReader(body)
	var reply strings.Builder

	for {
		select {
		case <-ctx.Done():
			return reply.String(), ctx.Err()
		default:
		}

		_, data, err := reader.ReadEvent()
		if err != nil {
			if err == io.EOF {
				return reply.String(), nil
			}
			return reply.String(), err
		}

		if bytes.Equal(data, []byte("[DONE]")) {
			return reply.String(), nil
		}

		var chunk streamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Keep-alives and provider extensions are not chunks.
			continue
		}

		if delta := chunk.content(); delta != "" {
			reply.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}

		if chunk.done() {
			return reply.String(), nil
		}
	}
}
