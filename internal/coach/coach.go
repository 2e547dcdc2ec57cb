// Package coach produces short coaching text through an OpenAI-compatible
// chat completion API. Every failure degrades to deterministic static text,
// so callers always get a usable response.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/logger"
	"github.com/julianstephens/compoundverse/internal/models"
)

var (
	ErrUnknownAction = errors.New("unknown coach action")
	errNoClient      = errors.New("no AI client configured")
	errEmpty         = errors.New("AI response was empty")
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// Completer is the part of *openai.Client the coach uses.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Payload struct {
	Name     string                 `json:"name,omitempty"`
	Domain   string                 `json:"domain,omitempty"` // starter pack target
	Domains  []string               `json:"domains,omitempty"`
	Momentum *models.MomentumResult `json:"momentum,omitempty"`
	Progress *models.Progress       `json:"progress,omitempty"`
	Recent   []models.Entry         `json:"recent,omitempty"`
}

type Request struct {
	Action  string  `json:"action"`
	Payload Payload `json:"payload"`
}

type Response struct {
	Greeting    string   `json:"greeting,omitempty"`
	StarterPack []string `json:"starterPack,omitempty"`
	Narrative   string   `json:"narrative,omitempty"`
	Tips        []string `json:"tips,omitempty"`
	Source      string   `json:"source"`
}

type Options struct {
	Model   string
	Timeout time.Duration
}

type Coach struct {
	client  Completer
	model   string
	timeout time.Duration
}

// NewOpenAIClient builds a go-openai client. An empty baseURL keeps the
// library default.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// New returns a coach. A nil client is allowed and yields fallback text only.
func New(client Completer, opts Options) *Coach {
	if opts.Model == "" {
		opts.Model = constants.DefaultOpenAIModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultCoachTimeoutSec * time.Second
	}
	return &Coach{client: client, model: opts.Model, timeout: opts.Timeout}
}

func validAction(action string) error {
	switch action {
	case constants.CoachActionGreeting, constants.CoachActionStarterPack, constants.CoachActionAnalysis:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// Handle answers req with AI text, or with fallback text when the AI call
// fails for any reason. Only an unknown action is reported as an error.
func (c *Coach) Handle(ctx context.Context, req Request) (Response, error) {
	if err := validAction(req.Action); err != nil {
		return Response{}, err
	}

	resp, err := c.generate(ctx, req)
	if err != nil {
		logger.Warn("Coach falling back to static text", "action", req.Action, "error", err)
		return fallback(req), nil
	}
	resp.Source = SourceAI
	return resp, nil
}

// Fallback returns the static response for req without calling the AI.
func Fallback(req Request) (Response, error) {
	if err := validAction(req.Action); err != nil {
		return Response{}, err
	}
	return fallback(req), nil
}

func (c *Coach) generate(ctx context.Context, req Request) (Response, error) {
	if c == nil || c.client == nil {
		return Response{}, errNoClient
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return Response{}, fmt.Errorf("encoding payload: %w", err)
	}

	logger.Debug("Requesting coach text", "action", req.Action, "model", c.model)
	out, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompts[req.Action] + "\n\nContext:\n" + string(payload)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.7,
	})
	if err != nil {
		return Response{}, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(out.Choices) == 0 {
		return Response{}, fmt.Errorf("OpenAI returned no choices")
	}

	var resp Response
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return Response{}, fmt.Errorf("decoding AI response: %w", err)
	}
	return shape(req.Action, resp)
}

// shape keeps only the fields the action's response defines and checks the
// required one was filled in.
func shape(action string, resp Response) (Response, error) {
	switch action {
	case constants.CoachActionGreeting:
		if strings.TrimSpace(resp.Greeting) == "" {
			return Response{}, errEmpty
		}
		return Response{Greeting: resp.Greeting}, nil
	case constants.CoachActionStarterPack:
		if len(resp.StarterPack) == 0 {
			return Response{}, errEmpty
		}
		return Response{StarterPack: resp.StarterPack}, nil
	case constants.CoachActionAnalysis:
		if strings.TrimSpace(resp.Narrative) == "" {
			return Response{}, errEmpty
		}
		return Response{Narrative: resp.Narrative, Tips: resp.Tips}, nil
	}
	return Response{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}
