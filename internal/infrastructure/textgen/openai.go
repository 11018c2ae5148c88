package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/smarttask/usecase"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

var errMissingKey = errors.New("textgen: API key not configured")

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	cfg    OpenAIConfig
	client *fasthttp.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewOpenAI uses client when given, otherwise a fresh fasthttp.Client.
func NewOpenAI(cfg OpenAIConfig, client *fasthttp.Client) *OpenAI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if client == nil {
		client = &fasthttp.Client{Name: "smarttask"}
	}
	return &OpenAI{cfg: cfg, client: client}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Generate(ctx context.Context, prompt usecase.Prompt) (string, error) {
	if o.cfg.APIKey == "" {
		return "", errMissingKey
	}

	body, err := json.Marshal(openAIRequest{
		Model: o.cfg.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: 0.3,
		MaxTokens:   512,
	})
	if err != nil {
		return "", fmt.Errorf("textgen: marshal request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(o.cfg.BaseURL + "/chat/completions")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+o.cfg.APIKey)
	req.SetBodyRaw(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = o.client.DoDeadline(req, resp, deadline)
	} else {
		err = o.client.DoTimeout(req, resp, o.cfg.Timeout)
	}
	if err != nil {
		return "", fmt.Errorf("textgen: request failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var decoded openAIResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", fmt.Errorf("textgen: decode response (status %d): %w", resp.StatusCode(), err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("textgen: api error (status %d): %s", resp.StatusCode(), decoded.Error.Message)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("textgen: unexpected status %d", resp.StatusCode())
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("textgen: no completion returned")
	}
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}
