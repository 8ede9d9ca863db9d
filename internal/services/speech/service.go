// Package speech wraps the external speech-to-text provider. The transcript
// it returns is treated exactly like typed free text downstream.
package speech

import (
	"context"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

type Service interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

type service struct {
	client *openai.Client
	model  string
}

func NewService(apiKey, baseURL, model string) Service {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}

	return &service{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (s *service) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.model,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return resp.Text, nil
}
