package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tendevs/cards-api/internal/config"
	"github.com/tendevs/cards-api/internal/domain"
	"github.com/tendevs/cards-api/internal/generation"
	"github.com/tendevs/cards-api/internal/platform/logger"
)

// tokensPerChar approximates the provider's tokenization for cost estimates:
// roughly one token per four characters of English text.
const tokensPerChar = 0.25

// promptOverheadTokens covers the system prompt and message framing.
const promptOverheadTokens = 250

// modelPricing is USD per million tokens, input and output. Estimates only;
// billing truth stays with the provider.
type modelPricing struct {
	inputPerMillion  float64
	outputPerMillion float64
}

var pricingTable = map[string]modelPricing{
	"openai/gpt-4o-mini":                 {inputPerMillion: 0.15, outputPerMillion: 0.60},
	"openai/gpt-4o":                      {inputPerMillion: 2.50, outputPerMillion: 10.00},
	"anthropic/claude-3.5-haiku":         {inputPerMillion: 0.80, outputPerMillion: 4.00},
	"google/gemini-2.0-flash-001":        {inputPerMillion: 0.10, outputPerMillion: 0.40},
	"meta-llama/llama-3.1-70b-instruct":  {inputPerMillion: 0.30, outputPerMillion: 0.40},
}

var defaultPricing = modelPricing{inputPerMillion: 1.00, outputPerMillion: 3.00}

// Service implements generation.Generator against the OpenRouter API.
type Service struct {
	completions completionClient
	raw         *Client
	cfg         config.AIConfig
	logger      *slog.Logger
}

// Ensure Service implements the generator port.
var _ generation.Generator = (*Service)(nil)

// NewService constructs the OpenRouter generator: a raw client wrapped in the
// resilient decorator. Returns generation.ErrInvalidConfig on missing
// settings. If log is nil, the process default is used.
func NewService(cfg config.AIConfig, log *slog.Logger) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required", generation.ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name is required", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	raw := NewClient(cfg, log)
	return &Service{
		completions: NewResilientClient(raw, cfg.Retry, cfg.CircuitBreaker, log),
		raw:         raw,
		cfg:         cfg,
		logger:      log.With(slog.String("component", "openrouter_service")),
	}, nil
}

// GenerateSuggestions implements generation.Generator. Every suggestion in
// the returned slice is tagged with the caller's pre-generated session ID.
func (s *Service) GenerateSuggestions(
	ctx context.Context,
	inputText string,
	sessionID uuid.UUID,
) ([]domain.Suggestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	req := &ChatCompletionRequest{
		Model:          s.cfg.ModelName,
		Messages:       buildMessages(inputText),
		Temperature:    s.cfg.Temperature,
		MaxTokens:      s.cfg.MaxTokens,
		ResponseFormat: suggestionResponseFormat(),
	}

	resp, err := s.completions.CreateCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	suggestions, err := parseSuggestions(resp.Choices[0].Message.Content, sessionID)
	if err != nil {
		log.Warn("provider returned unparseable suggestions",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("suggestions generated",
		slog.String("session_id", sessionID.String()),
		slog.String("model", s.cfg.ModelName),
		slog.Int("count", len(suggestions)))
	return suggestions, nil
}

// parseSuggestions decodes the model's JSON content into domain suggestions.
// Any shape or content problem maps to ErrInvalidResponse.
func parseSuggestions(content string, sessionID uuid.UUID) ([]domain.Suggestion, error) {
	var payload suggestionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: content is not valid JSON: %v", generation.ErrInvalidResponse, err)
	}
	if len(payload.Flashcards) == 0 {
		return nil, fmt.Errorf("%w: model returned no flashcards", generation.ErrInvalidResponse)
	}

	suggestions := make([]domain.Suggestion, 0, len(payload.Flashcards))
	for i, item := range payload.Flashcards {
		sug, err := domain.NewSuggestion(sessionID, item.Front, item.Back)
		if err != nil {
			return nil, fmt.Errorf("%w: flashcard %d: %v", generation.ErrInvalidResponse, i, err)
		}
		suggestions = append(suggestions, sug)
	}
	return suggestions, nil
}

// EstimateCost implements generation.Generator. The estimate assumes the
// full configured output budget is consumed; actual cost is usually lower.
func (s *Service) EstimateCost(ctx context.Context, inputText string) (float64, error) {
	pricing, ok := pricingTable[s.cfg.ModelName]
	if !ok {
		pricing = defaultPricing
	}

	inputTokens := float64(len(inputText))*tokensPerChar + promptOverheadTokens
	outputTokens := float64(s.cfg.MaxTokens)

	cost := inputTokens/1e6*pricing.inputPerMillion + outputTokens/1e6*pricing.outputPerMillion
	return cost, nil
}

// HealthCheck implements generation.Generator. It bypasses the breaker so a
// recovering provider is observable while completion calls still fail fast.
func (s *Service) HealthCheck(ctx context.Context) bool {
	if err := s.raw.Ping(ctx); err != nil {
		s.logger.Debug("provider health check failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

// ModelName implements generation.Generator.
func (s *Service) ModelName() string {
	return s.cfg.ModelName
}
