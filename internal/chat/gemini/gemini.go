// Package gemini talks to a generative-language REST endpoint over plain
// HTTP.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fintwin/internal/chat"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	grounding  bool
	httpClient *http.Client
}

// New creates a client for the given model. An empty baseURL selects the
// public endpoint. When grounding is on, replies may carry cited sources.
func New(apiKey, model, baseURL string, grounding bool) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing API key")
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.0-flash"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		grounding:  grounding,
		httpClient: &http.Client{},
	}, nil
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
	Tools             []tool    `json:"tools,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web struct {
					Title string `json:"title"`
					URI   string `json:"uri"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

func (c *Client) Generate(ctx context.Context, instruction, prompt string) (chat.Reply, error) {
	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if instruction != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: instruction}}}
	}
	if c.grounding {
		payload.Tools = []tool{{}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return chat.Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("generative language API connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return chat.Reply{}, fmt.Errorf("generative language API error: %d - %s", resp.StatusCode, string(raw))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return chat.Reply{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return chat.Reply{}, errors.New("empty response from generative language API")
	}

	cand := decoded.Candidates[0]
	var texts []string
	for _, p := range cand.Content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	if len(texts) == 0 {
		return chat.Reply{}, errors.New("response contained no text")
	}

	reply := chat.Reply{Text: strings.Join(texts, "\n")}
	for _, chunk := range cand.GroundingMetadata.GroundingChunks {
		if chunk.Web.URI == "" {
			continue
		}
		reply.Sources = append(reply.Sources, chat.Source{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}
	return reply, nil
}
