// Package openai adapts an OpenAI-compatible chat-completion endpoint to the
// relay's Generator port.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"fintwin/internal/chat"
)

type Client struct {
	cli   *goopenai.Client
	model string
}

// New creates a client. baseURL may point at any OpenAI-compatible server;
// empty selects the default endpoint.
func New(apiKey, model, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing API key")
	}
	if strings.TrimSpace(model) == "" {
		model = goopenai.GPT4oMini
	}
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{cli: goopenai.NewClientWithConfig(cfg), model: model}, nil
}

func (c *Client) Generate(ctx context.Context, instruction, prompt string) (chat.Reply, error) {
	resp, err := c.cli.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: instruction},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return chat.Reply{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return chat.Reply{}, errors.New("empty completion response")
	}
	// No search grounding on this provider, so no sources.
	return chat.Reply{Text: resp.Choices[0].Message.Content}, nil
}
