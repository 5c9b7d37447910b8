package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/metrics"
)

const (
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel = "gemini-2.0-flash"

	roleUser  = "user"
	roleModel = "model"
)

// ChatMessage is one entry of the visitor's conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// Turn is a conversation turn in the provider's format.
type Turn struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	SystemInstruction *Turn  `json:"systemInstruction,omitempty"`
	Contents          []Turn `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content Turn `json:"content"`
	} `json:"candidates"`
}

// BuildTurns maps history and the new message to provider turns. assistant
// becomes model and every other role becomes user; an entry whose role
// repeats the previous accepted turn is skipped; a leading model turn is
// dropped; the message is always appended as the final user turn.
func BuildTurns(history []ChatMessage, message string) []Turn {
	turns := make([]Turn, 0, len(history)+1)
	for _, entry := range history {
		role := roleUser
		if entry.Role == "assistant" {
			role = roleModel
		}
		if len(turns) > 0 && turns[len(turns)-1].Role == role {
			continue
		}
		turns = append(turns, Turn{Role: role, Parts: []geminiPart{{Text: entry.Content}}})
	}
	if len(turns) > 0 && turns[0].Role != roleUser {
		turns = turns[1:]
	}
	return append(turns, Turn{Role: roleUser, Parts: []geminiPart{{Text: message}}})
}

type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ChatService forwards visitor questions to Gemini with a fixed system prompt.
type ChatService struct {
	apiKey       string
	endpoint     string
	systemPrompt string
	client       *http.Client
	logger       zerolog.Logger
}

func NewChatService(cfg ChatConfig, systemPrompt string) *ChatService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ChatService{
		apiKey:       cfg.APIKey,
		endpoint:     fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model),
		systemPrompt: systemPrompt,
		client:       &http.Client{Timeout: cfg.Timeout},
		logger:       log.With().Str("service", "chat").Logger(),
	}
}

// CheckConfig reports the configuration error that prevents chatting, if any.
func (s *ChatService) CheckConfig() error {
	if s.apiKey == "" {
		return errs.NewEnvironmentVariableError("GEMINI_API_KEY")
	}
	return nil
}

// Reply sends the conversation to the provider once and returns its text.
func (s *ChatService) Reply(ctx context.Context, req ChatRequest) (reply string, err error) {
	defer func() { metrics.RecordChatRequest(chatResult(err)) }()

	if err = s.CheckConfig(); err != nil {
		return "", err
	}

	payload := generateContentRequest{Contents: BuildTurns(req.History, req.Message)}
	if s.systemPrompt != "" {
		payload.SystemInstruction = &Turn{Parts: []geminiPart{{Text: s.systemPrompt}}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to encode chat request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to build chat request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	metrics.RecordChatLatency(time.Since(start))
	if err != nil {
		return "", errs.NewServiceUnreachableError("gemini", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewUnexpectedResponseError("gemini", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn().Int("status", resp.StatusCode).Msg("gemini returned an error")
		return "", errs.NewUpstreamError("gemini", resp.StatusCode, string(respBody))
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errs.NewUnexpectedResponseError("gemini", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errs.NewUnexpectedResponseError("gemini", fmt.Errorf("response has no candidates"))
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func chatResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errs.IsConfigError(err) || errs.IsEnvironmentVariableError(err):
		return "config_error"
	case errs.IsUpstreamError(err):
		return "upstream_error"
	default:
		return metrics.ResultError
	}
}
